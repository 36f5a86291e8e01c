package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sma-standing-api/internal/middleware"
	"github.com/noah-isme/sma-standing-api/internal/models"
)

// Register mounts the standing API on group. auth must verify the bearer
// token before any role check runs.
func Register(group *gin.RouterGroup, auth gin.HandlerFunc, standing *StandingHandler, reportCards *ReportCardHandler) {
	readers := middleware.RBAC(string(models.RoleSuperAdmin), string(models.RoleAdmin), string(models.RoleTeacher), middleware.Self)
	writers := middleware.RequireRoles(models.RoleSuperAdmin, models.RoleAdmin, models.RoleTeacher)

	group.Use(auth, middleware.WithResponseMeta())

	students := group.Group("/students/:id", readers)
	students.GET("/standing", standing.Summary)
	students.GET("/courses/:courseId/standing", standing.Course)
	students.GET("/report-card", reportCards.Download)

	group.POST("/grade-entries", writers, middleware.Audit(standing.logger, "record_entry", "grade_entry"), standing.RecordEntry)
	group.PUT("/courses/:courseId/weights", writers, middleware.Audit(standing.logger, "update_weights", "category_weights"), standing.UpdateWeights)
}
