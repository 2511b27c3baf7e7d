package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/uni-planner-api/internal/dto"
	"github.com/noah-isme/uni-planner-api/internal/models"
	appErrors "github.com/noah-isme/uni-planner-api/pkg/errors"
	"github.com/noah-isme/uni-planner-api/pkg/sharelink"
)

func newPlanForExport(t *testing.T) (*PlannerService, *dto.GeneratePlanResponse) {
	t.Helper()
	loader := &stubCourseLoader{courses: []models.Course{
		testCourse("MATH101", testSection("MATH101", "01", models.TimeBlock{Day: models.Monday, Period: 1})),
		testCourse("CS201", testSection("CS201", "01", models.TimeBlock{Day: models.Friday, Period: 8})),
	}}
	signer := sharelink.New("test-secret", time.Hour)
	planner := NewPlannerService(loader, nil, signer, nil, nil, PlannerConfig{MaxResults: 10, PlanTTL: time.Minute})

	resp, err := planner.GeneratePlan(context.Background(), dto.GeneratePlanRequest{
		TermID:      "2026-FALL",
		CourseCodes: []string{"MATH101", "CS201"},
	})
	require.NoError(t, err)
	require.NotEmpty(t, resp.Results)
	return planner, resp
}

func TestExportServiceCSV(t *testing.T) {
	planner, resp := newPlanForExport(t)
	svc := NewExportService(planner, nil)

	file, err := svc.ExportPlanResult(context.Background(), resp.PlanID, resp.Results[0].ID, ExportFormatCSV)
	require.NoError(t, err)
	assert.Equal(t, "text/csv", file.ContentType)
	assert.True(t, strings.HasSuffix(file.Filename, ".csv"))

	body := string(file.Data)
	assert.Contains(t, body, "Period,Monday,Tuesday,Wednesday,Thursday,Friday,Saturday")
	assert.Contains(t, body, "MATH101-01 LECTURE")
	assert.Contains(t, body, "CS201-01 LECTURE")
	// One header line plus one row per period.
	assert.Len(t, strings.Split(strings.TrimSpace(body), "\n"), 1+models.PeriodsPerDay)
}

func TestExportServicePDF(t *testing.T) {
	planner, resp := newPlanForExport(t)
	svc := NewExportService(planner, nil)

	file, err := svc.ExportPlanResult(context.Background(), resp.PlanID, resp.Results[0].ID, ExportFormatPDF)
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", file.ContentType)
	assert.True(t, strings.HasPrefix(string(file.Data), "%PDF"))
}

func TestExportServiceUnknownFormat(t *testing.T) {
	planner, resp := newPlanForExport(t)
	svc := NewExportService(planner, nil)

	_, err := svc.ExportPlanResult(context.Background(), resp.PlanID, resp.Results[0].ID, "xlsx")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidInput.Code, appErrors.FromError(err).Code)
}

func TestExportServiceUnknownPlan(t *testing.T) {
	planner, _ := newPlanForExport(t)
	svc := NewExportService(planner, nil)

	_, err := svc.ExportPlanResult(context.Background(), "missing", 1, ExportFormatCSV)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrPlanNotFound.Code, appErrors.FromError(err).Code)
}
