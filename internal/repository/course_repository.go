package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/uni-planner-api/internal/models"
)

// CourseRepository manages catalog courses and their sections.
type CourseRepository struct {
	db *sqlx.DB
}

// NewCourseRepository builds repository.
func NewCourseRepository(db *sqlx.DB) *CourseRepository {
	return &CourseRepository{db: db}
}

// FindByCode loads one course and its sections for a term.
func (r *CourseRepository) FindByCode(ctx context.Context, termID, code string) (*models.Course, error) {
	const query = `SELECT code, term_id, title, created_at, updated_at
FROM courses WHERE term_id = $1 AND code = $2`
	var course models.Course
	if err := r.db.GetContext(ctx, &course, query, termID, code); err != nil {
		return nil, fmt.Errorf("find course %s: %w", code, err)
	}

	sections, err := r.listSections(ctx, termID, []string{code})
	if err != nil {
		return nil, err
	}
	course.Sections = sections
	return &course, nil
}

// ListByCodes loads the given courses with their sections, preserving the
// requested code order.
func (r *CourseRepository) ListByCodes(ctx context.Context, termID string, codes []string) ([]models.Course, error) {
	if len(codes) == 0 {
		return nil, nil
	}
	const query = `SELECT code, term_id, title, created_at, updated_at
FROM courses WHERE term_id = ? AND code IN (?)`
	q, args, err := sqlx.In(query, termID, codes)
	if err != nil {
		return nil, fmt.Errorf("build course query: %w", err)
	}
	var courses []models.Course
	if err := r.db.SelectContext(ctx, &courses, r.db.Rebind(q), args...); err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}

	sections, err := r.listSections(ctx, termID, codes)
	if err != nil {
		return nil, err
	}
	byCode := make(map[string]*models.Course, len(courses))
	for i := range courses {
		byCode[courses[i].Code] = &courses[i]
	}
	for _, section := range sections {
		if course, ok := byCode[section.CourseCode]; ok {
			course.Sections = append(course.Sections, section)
		}
	}

	ordered := make([]models.Course, 0, len(courses))
	for _, code := range codes {
		if course, ok := byCode[code]; ok {
			ordered = append(ordered, *course)
			delete(byCode, code)
		}
	}
	return ordered, nil
}

// ListByTerm returns all courses of a term without their sections, optionally
// filtered by a code/title substring.
func (r *CourseRepository) ListByTerm(ctx context.Context, termID, search string) ([]models.Course, error) {
	query := `SELECT code, term_id, title, created_at, updated_at
FROM courses WHERE term_id = $1`
	args := []interface{}{termID}
	if search != "" {
		query += ` AND (code ILIKE $2 OR title ILIKE $2)`
		args = append(args, "%"+search+"%")
	}
	query += ` ORDER BY code ASC`

	var courses []models.Course
	if err := r.db.SelectContext(ctx, &courses, query, args...); err != nil {
		return nil, fmt.Errorf("list courses by term: %w", err)
	}
	return courses, nil
}

// UpsertCourse inserts or refreshes one catalog course row.
func (r *CourseRepository) UpsertCourse(ctx context.Context, exec sqlx.ExtContext, course *models.Course) error {
	target := r.exec(exec)
	now := time.Now().UTC()
	if course.CreatedAt.IsZero() {
		course.CreatedAt = now
	}
	course.UpdatedAt = now

	const query = `
INSERT INTO courses (code, term_id, title, created_at, updated_at)
VALUES (:code, :term_id, :title, :created_at, :updated_at)
ON CONFLICT (term_id, code) DO UPDATE
SET title = EXCLUDED.title,
    updated_at = EXCLUDED.updated_at`
	if _, err := sqlx.NamedExecContext(ctx, target, query, course); err != nil {
		return fmt.Errorf("upsert course %s: %w", course.Code, err)
	}
	return nil
}

// UpsertSections inserts or refreshes section rows, encoding activities into
// their JSONB column first.
func (r *CourseRepository) UpsertSections(ctx context.Context, exec sqlx.ExtContext, sections []models.Section) error {
	if len(sections) == 0 {
		return nil
	}
	target := r.exec(exec)
	now := time.Now().UTC()

	const query = `
INSERT INTO sections (id, course_code, term_id, number, instructor, room, activities, created_at, updated_at)
VALUES (:id, :course_code, :term_id, :number, :instructor, :room, :activities, :created_at, :updated_at)
ON CONFLICT (term_id, id) DO UPDATE
SET instructor = EXCLUDED.instructor,
    room = EXCLUDED.room,
    activities = EXCLUDED.activities,
    updated_at = EXCLUDED.updated_at`

	for i := range sections {
		section := &sections[i]
		if section.ID == "" {
			section.ID = models.SectionID(section.CourseCode, section.Number)
		}
		if err := section.EncodeActivities(); err != nil {
			return err
		}
		if section.CreatedAt.IsZero() {
			section.CreatedAt = now
		}
		section.UpdatedAt = now
		if _, err := sqlx.NamedExecContext(ctx, target, query, section); err != nil {
			return fmt.Errorf("upsert section %s: %w", section.ID, err)
		}
	}
	return nil
}

func (r *CourseRepository) listSections(ctx context.Context, termID string, codes []string) ([]models.Section, error) {
	const query = `SELECT id, course_code, term_id, number, instructor, room, activities, created_at, updated_at
FROM sections WHERE term_id = ? AND course_code IN (?) ORDER BY course_code ASC, number ASC`
	q, args, err := sqlx.In(query, termID, codes)
	if err != nil {
		return nil, fmt.Errorf("build section query: %w", err)
	}
	var sections []models.Section
	if err := r.db.SelectContext(ctx, &sections, r.db.Rebind(q), args...); err != nil {
		return nil, fmt.Errorf("list sections: %w", err)
	}
	for i := range sections {
		if err := sections[i].DecodeActivities(); err != nil {
			return nil, err
		}
	}
	return sections, nil
}

func (r *CourseRepository) exec(exec sqlx.ExtContext) sqlx.ExtContext {
	if exec != nil {
		return exec
	}
	return r.db
}
