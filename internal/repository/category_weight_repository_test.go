package repository

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-standing-api/internal/models"
)

var weightColumns = []string{"course_id", "category", "weight", "updated_at"}

func TestCategoryWeightRepositoryFindByCourse(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewCategoryWeightRepository(db)

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("FROM category_weights WHERE course_id = $1")).
		WithArgs("c1").
		WillReturnRows(sqlmock.NewRows(weightColumns).
			AddRow("c1", "ASSIGNMENT", 0.5, now).
			AddRow("c1", "QUIZ", 0.5, now))

	cfg, err := repo.FindByCourse(context.Background(), "c1")
	require.NoError(t, err)
	assert.Equal(t, "c1", cfg.CourseID)
	assert.Equal(t, map[models.Category]float64{models.CategoryAssignment: 0.5, models.CategoryQuiz: 0.5}, cfg.Weights)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCategoryWeightRepositoryFindByCourseMissing(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewCategoryWeightRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM category_weights WHERE course_id = $1")).
		WithArgs("c9").
		WillReturnRows(sqlmock.NewRows(weightColumns))

	_, err := repo.FindByCourse(context.Background(), "c9")
	assert.True(t, errors.Is(err, sql.ErrNoRows))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCategoryWeightRepositoryFindByCourses(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewCategoryWeightRepository(db)

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("WHERE course_id = ANY($1)")).
		WithArgs(sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows(weightColumns).
			AddRow("c1", "QUIZ", 1.0, now).
			AddRow("c2", "ASSIGNMENT", 0.7, now).
			AddRow("c2", "ATTENDANCE", 0.3, now))

	configs, err := repo.FindByCourses(context.Background(), []string{"c1", "c2", "c3"})
	require.NoError(t, err)
	assert.Len(t, configs, 2)
	assert.Equal(t, 0.3, configs["c2"].Weights[models.CategoryAttendance])
	_, ok := configs["c3"]
	assert.False(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())

	empty, err := repo.FindByCourses(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestCategoryWeightRepositoryReplace(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewCategoryWeightRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM category_weights WHERE course_id = $1")).
		WithArgs("c1").
		WillReturnResult(sqlmock.NewResult(0, 4))
	mock.ExpectExec("INSERT INTO category_weights").
		WithArgs("c1", models.CategoryAssignment, 0.6, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO category_weights").
		WithArgs("c1", models.CategoryQuiz, 0.4, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	err := repo.Replace(context.Background(), models.CategoryWeightConfig{CourseID: "c1", Weights: map[models.Category]float64{
		models.CategoryQuiz:       0.4,
		models.CategoryAssignment: 0.6,
	}})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCategoryWeightRepositoryReplaceRollsBack(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewCategoryWeightRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM category_weights").WithArgs("c1").WillReturnError(errors.New("locked"))
	mock.ExpectRollback()

	err := repo.Replace(context.Background(), models.CategoryWeightConfig{CourseID: "c1", Weights: map[models.Category]float64{models.CategoryQuiz: 1}})
	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
