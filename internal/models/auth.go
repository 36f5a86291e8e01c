package models

import "github.com/golang-jwt/jwt/v5"

// UserRole represents the available roles for the RBAC system.
type UserRole string

const (
	RoleSuperAdmin UserRole = "SUPERADMIN"
	RoleAdmin      UserRole = "ADMIN"
	RoleTeacher    UserRole = "TEACHER"
	RoleStudent    UserRole = "STUDENT"
)

// JWTClaims is the access token payload issued by the school portal.
// StudentID is set for student accounts and identifies whose standing the
// bearer may read.
type JWTClaims struct {
	UserID    string   `json:"user_id"`
	Role      UserRole `json:"role"`
	Email     string   `json:"email"`
	FullName  string   `json:"full_name"`
	StudentID string   `json:"student_id,omitempty"`
	jwt.RegisteredClaims
}

// SubjectStudentID returns the student identity the claims speak for.
func (c *JWTClaims) SubjectStudentID() string {
	if c.StudentID != "" {
		return c.StudentID
	}
	return c.UserID
}
