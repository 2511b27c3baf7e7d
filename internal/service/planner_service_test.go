package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/uni-planner-api/internal/dto"
	"github.com/noah-isme/uni-planner-api/internal/models"
	appErrors "github.com/noah-isme/uni-planner-api/pkg/errors"
	"github.com/noah-isme/uni-planner-api/pkg/sharelink"
)

type stubCourseLoader struct {
	courses []models.Course
	err     error
}

func (s *stubCourseLoader) LoadForPlanning(ctx context.Context, termID string, codes []string) ([]models.Course, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.courses, nil
}

func testCourse(code string, sections ...models.Section) models.Course {
	return models.Course{Code: code, TermID: "2026-FALL", Sections: sections}
}

func testSection(code, number string, blocks ...models.TimeBlock) models.Section {
	return models.Section{
		ID:         models.SectionID(code, number),
		CourseCode: code,
		TermID:     "2026-FALL",
		Number:     number,
		Activities: []models.Activity{{Type: models.ActivityLecture, Blocks: blocks}},
	}
}

func newTestPlannerService(loader *stubCourseLoader) *PlannerService {
	signer := sharelink.New("test-secret", time.Hour)
	return NewPlannerService(loader, nil, signer, nil, nil, PlannerConfig{MaxResults: 100, PlanTTL: time.Minute})
}

func TestPlannerServiceGeneratePlan(t *testing.T) {
	loader := &stubCourseLoader{courses: []models.Course{
		testCourse("MATH101",
			testSection("MATH101", "01", models.TimeBlock{Day: models.Monday, Period: 1}),
			testSection("MATH101", "02", models.TimeBlock{Day: models.Tuesday, Period: 1}),
		),
		testCourse("CS201",
			testSection("CS201", "01", models.TimeBlock{Day: models.Wednesday, Period: 2}),
		),
	}}
	svc := newTestPlannerService(loader)

	resp, err := svc.GeneratePlan(context.Background(), dto.GeneratePlanRequest{
		TermID:      "2026-FALL",
		CourseCodes: []string{"MATH101", "CS201"},
	})
	require.NoError(t, err)
	require.Len(t, resp.Results, 2)
	assert.NotEmpty(t, resp.PlanID)
	assert.Zero(t, resp.TotalConflicts)
	assert.False(t, resp.CapReached)
	// Sections come back in the caller's course order.
	assert.Equal(t, "MATH101", resp.Results[0].Sections[0].CourseCode)
	assert.Equal(t, "CS201", resp.Results[0].Sections[1].CourseCode)
	assert.Contains(t, resp.Results[0].Description, "MATH101-")

	stored, err := svc.GetPlan(context.Background(), resp.PlanID)
	require.NoError(t, err)
	assert.Equal(t, resp.PlanID, stored.PlanID)
}

func TestPlannerServiceGeneratePlanAllConflicting(t *testing.T) {
	clash := models.TimeBlock{Day: models.Monday, Period: 3}
	loader := &stubCourseLoader{courses: []models.Course{
		testCourse("BIO110", testSection("BIO110", "01", clash)),
		testCourse("CHEM120", testSection("CHEM120", "01", clash)),
	}}
	svc := newTestPlannerService(loader)

	resp, err := svc.GeneratePlan(context.Background(), dto.GeneratePlanRequest{
		TermID:      "2026-FALL",
		CourseCodes: []string{"BIO110", "CHEM120"},
	})
	require.NoError(t, err)
	assert.Empty(t, resp.Results)
	require.Len(t, resp.Diagnostics, 1)
	assert.Equal(t, "BIO110", resp.Diagnostics[0].CourseA)
	assert.Equal(t, "CHEM120", resp.Diagnostics[0].CourseB)
	assert.Equal(t, 100.0, resp.Diagnostics[0].Percentage)
	assert.Equal(t, 1, resp.TotalConflicts)
}

func TestPlannerServiceGeneratePlanValidation(t *testing.T) {
	svc := newTestPlannerService(&stubCourseLoader{})

	_, err := svc.GeneratePlan(context.Background(), dto.GeneratePlanRequest{TermID: "2026-FALL"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestPlannerServiceGetPlanExpired(t *testing.T) {
	loader := &stubCourseLoader{courses: []models.Course{
		testCourse("MATH101", testSection("MATH101", "01", models.TimeBlock{Day: models.Monday, Period: 1})),
	}}
	signer := sharelink.New("test-secret", time.Hour)
	svc := NewPlannerService(loader, nil, signer, nil, nil, PlannerConfig{MaxResults: 10, PlanTTL: time.Nanosecond})

	resp, err := svc.GeneratePlan(context.Background(), dto.GeneratePlanRequest{
		TermID:      "2026-FALL",
		CourseCodes: []string{"MATH101"},
	})
	require.NoError(t, err)

	time.Sleep(5 * time.Millisecond)
	_, err = svc.GetPlan(context.Background(), resp.PlanID)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrPlanNotFound.Code, appErrors.FromError(err).Code)
}

func TestPlannerServiceShareRoundTrip(t *testing.T) {
	loader := &stubCourseLoader{courses: []models.Course{
		testCourse("MATH101", testSection("MATH101", "01", models.TimeBlock{Day: models.Monday, Period: 1})),
		testCourse("CS201", testSection("CS201", "01", models.TimeBlock{Day: models.Friday, Period: 8})),
	}}
	svc := newTestPlannerService(loader)

	resp, err := svc.GeneratePlan(context.Background(), dto.GeneratePlanRequest{
		TermID:      "2026-FALL",
		CourseCodes: []string{"MATH101", "CS201"},
	})
	require.NoError(t, err)
	require.NotEmpty(t, resp.Results)

	share, err := svc.SharePlan(context.Background(), resp.PlanID, resp.Results[0].ID)
	require.NoError(t, err)
	assert.NotEmpty(t, share.Token)

	view, err := svc.ResolveSharedPlan(share.Token)
	require.NoError(t, err)
	assert.Equal(t, "2026-FALL", view.TermID)
	assert.ElementsMatch(t, []string{"MATH101-01", "CS201-01"}, view.SectionIDs)
}

func TestPlannerServiceShareUnknownResult(t *testing.T) {
	loader := &stubCourseLoader{courses: []models.Course{
		testCourse("MATH101", testSection("MATH101", "01", models.TimeBlock{Day: models.Monday, Period: 1})),
	}}
	svc := newTestPlannerService(loader)

	resp, err := svc.GeneratePlan(context.Background(), dto.GeneratePlanRequest{
		TermID:      "2026-FALL",
		CourseCodes: []string{"MATH101"},
	})
	require.NoError(t, err)

	_, err = svc.SharePlan(context.Background(), resp.PlanID, 999)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestPlannerServiceOverridePassthrough(t *testing.T) {
	clash := models.TimeBlock{Day: models.Thursday, Period: 5}
	lab := models.Section{
		ID:         "PHYS110-01",
		CourseCode: "PHYS110",
		Number:     "01",
		Activities: []models.Activity{{Type: models.ActivityTutorial, Blocks: []models.TimeBlock{clash}}},
	}
	other := models.Section{
		ID:         "STAT210-01",
		CourseCode: "STAT210",
		Number:     "01",
		Activities: []models.Activity{{Type: models.ActivityTutorial, Blocks: []models.TimeBlock{clash}}},
	}
	loader := &stubCourseLoader{courses: []models.Course{
		{Code: "PHYS110", Sections: []models.Section{lab}},
		{Code: "STAT210", Sections: []models.Section{other}},
	}}
	svc := newTestPlannerService(loader)

	resp, err := svc.GeneratePlan(context.Background(), dto.GeneratePlanRequest{
		TermID:      "2026-FALL",
		CourseCodes: []string{"PHYS110", "STAT210"},
		Overrides: []dto.OverrideRuleRequest{
			{CourseCode: "PHYS110", ActivityType: "TUTORIAL"},
			{CourseCode: "STAT210", ActivityType: "TUTORIAL"},
		},
	})
	require.NoError(t, err)
	require.Len(t, resp.Results, 1)
	assert.True(t, resp.Results[0].HasPermittedOverlap)
}
