package handler

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/uni-planner-api/internal/dto"
	"github.com/noah-isme/uni-planner-api/internal/middleware"
	"github.com/noah-isme/uni-planner-api/internal/models"
	"github.com/noah-isme/uni-planner-api/internal/service"
	appErrors "github.com/noah-isme/uni-planner-api/pkg/errors"
)

type plannerMock struct {
	captured dto.GeneratePlanRequest
	getErr   error
}

func (m *plannerMock) GeneratePlan(ctx context.Context, req dto.GeneratePlanRequest) (*dto.GeneratePlanResponse, error) {
	m.captured = req
	return &dto.GeneratePlanResponse{PlanID: "plan-1", TermID: req.TermID}, nil
}

func (m *plannerMock) GetPlan(ctx context.Context, planID string) (*dto.GeneratePlanResponse, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	return &dto.GeneratePlanResponse{PlanID: planID}, nil
}

func (m *plannerMock) SharePlan(ctx context.Context, planID string, resultID int) (*dto.SharePlanResponse, error) {
	return &dto.SharePlanResponse{Token: "tok"}, nil
}

func (m *plannerMock) ResolveSharedPlan(token string) (*dto.SharedPlanView, error) {
	return &dto.SharedPlanView{TermID: "2026-FALL"}, nil
}

type exporterMock struct{}

func (m *exporterMock) ExportPlanResult(ctx context.Context, planID string, resultID int, format string) (*service.ExportFile, error) {
	return &service.ExportFile{Filename: "plan.csv", ContentType: "text/csv", Data: []byte("Period\n")}, nil
}

func TestPlannerHandlerGenerate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &plannerMock{}
	handler := &PlannerHandler{planner: mockSvc, exporter: &exporterMock{}}

	payload := []byte(`{"termId":"2026-FALL","courseCodes":["MATH101","CS201"],"overrides":[{"courseCode":"MATH101","activityType":"TUTORIAL"}]}`)
	req, _ := http.NewRequest(http.MethodPost, "/plans/generate", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = req

	handler.Generate(c)

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "2026-FALL", mockSvc.captured.TermID)
	require.Equal(t, []string{"MATH101", "CS201"}, mockSvc.captured.CourseCodes)
	require.Len(t, mockSvc.captured.Overrides, 1)
}

func TestPlannerHandlerGenerateMalformed(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := &PlannerHandler{planner: &plannerMock{}}

	req, _ := http.NewRequest(http.MethodPost, "/plans/generate", bytes.NewReader([]byte(`{"termId":`)))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = req

	handler.Generate(c)

	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPlannerHandlerGetExpired(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := &PlannerHandler{planner: &plannerMock{getErr: appErrors.ErrPlanNotFound}}

	req, _ := http.NewRequest(http.MethodGet, "/plans/plan-9", nil)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = req
	c.Params = gin.Params{{Key: "id", Value: "plan-9"}}

	handler.Get(c)

	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestPlannerHandlerShareBadResultID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := &PlannerHandler{planner: &plannerMock{}}

	req, _ := http.NewRequest(http.MethodPost, "/plans/plan-1/results/abc/share", nil)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = req
	c.Params = gin.Params{{Key: "id", Value: "plan-1"}, {Key: "resultId", Value: "abc"}}

	handler.Share(c)

	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPlannerHandlerSharedEchoesViewer(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := &PlannerHandler{planner: &plannerMock{}}

	req, _ := http.NewRequest(http.MethodGet, "/plans/shared/tok", nil)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = req
	c.Params = gin.Params{{Key: "token", Value: "tok"}}
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: "user-7", Role: models.RoleStudent})

	handler.Shared(c)

	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), `"viewerId":"user-7"`)
}

func TestPlannerHandlerSharedAnonymous(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := &PlannerHandler{planner: &plannerMock{}}

	req, _ := http.NewRequest(http.MethodGet, "/plans/shared/tok", nil)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = req
	c.Params = gin.Params{{Key: "token", Value: "tok"}}

	handler.Shared(c)

	require.Equal(t, http.StatusOK, w.Code)
	require.NotContains(t, w.Body.String(), "viewerId")
}

func TestPlannerHandlerExport(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := &PlannerHandler{planner: &plannerMock{}, exporter: &exporterMock{}}

	req, _ := http.NewRequest(http.MethodGet, "/plans/plan-1/results/1/export?format=csv", nil)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = req
	c.Params = gin.Params{{Key: "id", Value: "plan-1"}, {Key: "resultId", Value: "1"}}

	handler.Export(c)

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "text/csv", w.Header().Get("Content-Type"))
	require.Contains(t, w.Header().Get("Content-Disposition"), "plan.csv")
}
