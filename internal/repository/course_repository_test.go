package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/uni-planner-api/internal/models"
)

func newCourseRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestCourseRepositoryListByCodes(t *testing.T) {
	db, mock, cleanup := newCourseRepoMock(t)
	defer cleanup()
	repo := NewCourseRepository(db)

	now := time.Now()
	courseRows := sqlmock.NewRows([]string{"code", "term_id", "title", "created_at", "updated_at"}).
		AddRow("MATH101", "2026-FALL", "Calculus I", now, now).
		AddRow("CS201", "2026-FALL", "Data Structures", now, now)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT code, term_id, title, created_at, updated_at")).
		WithArgs("2026-FALL", "CS201", "MATH101").
		WillReturnRows(courseRows)

	activities := []byte(`[{"type":"LECTURE","blocks":[{"day":1,"period":1}]}]`)
	sectionRows := sqlmock.NewRows([]string{"id", "course_code", "term_id", "number", "instructor", "room", "activities", "created_at", "updated_at"}).
		AddRow("CS201-01", "CS201", "2026-FALL", "01", "Dr. Chen", "B-102", activities, now, now).
		AddRow("MATH101-01", "MATH101", "2026-FALL", "01", "Dr. Patel", "A-201", activities, now, now)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, course_code, term_id, number, instructor, room, activities, created_at, updated_at")).
		WithArgs("2026-FALL", "CS201", "MATH101").
		WillReturnRows(sectionRows)

	courses, err := repo.ListByCodes(context.Background(), "2026-FALL", []string{"CS201", "MATH101"})
	require.NoError(t, err)
	require.Len(t, courses, 2)

	// Caller order is preserved even though the db returned rows sorted by code.
	assert.Equal(t, "CS201", courses[0].Code)
	assert.Equal(t, "MATH101", courses[1].Code)
	require.Len(t, courses[0].Sections, 1)
	require.Len(t, courses[0].Sections[0].Activities, 1)
	assert.Equal(t, models.ActivityLecture, courses[0].Sections[0].Activities[0].Type)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCourseRepositoryListByCodesEmpty(t *testing.T) {
	db, mock, cleanup := newCourseRepoMock(t)
	defer cleanup()
	repo := NewCourseRepository(db)

	courses, err := repo.ListByCodes(context.Background(), "2026-FALL", nil)
	require.NoError(t, err)
	assert.Nil(t, courses)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCourseRepositoryUpsertSections(t *testing.T) {
	db, mock, cleanup := newCourseRepoMock(t)
	defer cleanup()
	repo := NewCourseRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO sections")).
		WithArgs("PHYS110-01", "PHYS110", "2026-FALL", "01", "Dr. Okafor", "C-15", sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	sections := []models.Section{
		{
			CourseCode: "PHYS110",
			TermID:     "2026-FALL",
			Number:     "01",
			Instructor: "Dr. Okafor",
			Room:       "C-15",
			Activities: []models.Activity{
				{Type: models.ActivityLab, Blocks: []models.TimeBlock{{Day: models.Tuesday, Period: 3}}},
			},
		},
	}

	require.NoError(t, repo.UpsertSections(context.Background(), nil, sections))
	assert.Equal(t, "PHYS110-01", sections[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCourseRepositoryUpsertCourse(t *testing.T) {
	db, mock, cleanup := newCourseRepoMock(t)
	defer cleanup()
	repo := NewCourseRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO courses")).
		WithArgs("PHYS110", "2026-FALL", "Mechanics", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	course := &models.Course{Code: "PHYS110", TermID: "2026-FALL", Title: "Mechanics"}
	require.NoError(t, repo.UpsertCourse(context.Background(), nil, course))
	assert.False(t, course.UpdatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}
