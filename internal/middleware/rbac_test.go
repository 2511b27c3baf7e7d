package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/uni-planner-api/internal/models"
)

func rbacContext(t *testing.T, claims *models.JWTClaims) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodPost, "/courses/sync", nil)
	if claims != nil {
		c.Set(ContextUserKey, claims)
	}
	return c, w
}

func TestRBACAllowsMatchingRole(t *testing.T) {
	c, _ := rbacContext(t, &models.JWTClaims{UserID: "adv-1", Role: models.RoleAdvisor})

	RequireRoles(models.RoleAdvisor)(c)

	require.False(t, c.IsAborted())
}

func TestRBACForbidsOtherRoles(t *testing.T) {
	c, w := rbacContext(t, &models.JWTClaims{UserID: "stu-1", Role: models.RoleStudent})

	RequireRoles(models.RoleAdvisor)(c)

	require.True(t, c.IsAborted())
	require.Equal(t, http.StatusForbidden, w.Code)
}

func TestRBACRequiresClaims(t *testing.T) {
	c, w := rbacContext(t, nil)

	RequireRoles(models.RoleAdvisor)(c)

	require.True(t, c.IsAborted())
	require.Equal(t, http.StatusUnauthorized, w.Code)
}
