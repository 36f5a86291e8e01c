package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCourseRepositoryListForStudent(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewCourseRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM enrollments e")).
		WithArgs("s1", "t1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "code", "name", "credit_hours"}).
			AddRow("c1", "BIO-1", "Biology", 3.0).
			AddRow("c2", "MAT-1", "Mathematics", 4.0))

	courses, err := repo.ListForStudent(context.Background(), "s1", "t1")
	require.NoError(t, err)
	require.Len(t, courses, 2)
	assert.Equal(t, "Mathematics", courses[1].Name)
	assert.Equal(t, 4.0, courses[1].CreditHours)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCourseRepositoryFindByID(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewCourseRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM courses WHERE id = $1")).
		WithArgs("c1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "code", "name", "credit_hours"}).AddRow("c1", "BIO-1", "Biology", 3.0))
	mock.ExpectQuery(regexp.QuoteMeta("FROM courses WHERE id = $1")).
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	course, err := repo.FindByID(context.Background(), "c1")
	require.NoError(t, err)
	assert.Equal(t, "BIO-1", course.Code)

	_, err = repo.FindByID(context.Background(), "missing")
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}
