package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qs3c/gym_go_server/internal/pkg/jwt"
)

const testSecret = "test_secret"

func init() {
	gin.SetMode(gin.TestMode)
}

func protectedRouter() *gin.Engine {
	router := gin.New()
	router.GET("/protected", Auth(testSecret), func(c *gin.Context) {
		adminID, ok := GetAdminID(c)
		if !ok {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "no admin id"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"admin_id": adminID})
	})
	return router
}

func performGet(r http.Handler, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest("GET", "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuth_ValidToken(t *testing.T) {
	router := protectedRouter()

	token, err := jwt.GenerateToken(42, testSecret, 1)
	require.NoError(t, err)

	w := performGet(router, "Bearer "+token)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"admin_id":42`)
}

func TestAuth_MissingHeader(t *testing.T) {
	router := protectedRouter()

	w := performGet(router, "")

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuth_MalformedHeader(t *testing.T) {
	router := protectedRouter()

	token, err := jwt.GenerateToken(42, testSecret, 1)
	require.NoError(t, err)

	// 缺少 Bearer 前缀
	w := performGet(router, token)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuth_InvalidToken(t *testing.T) {
	router := protectedRouter()

	w := performGet(router, "Bearer not-a-valid-token")

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuth_WrongSecret(t *testing.T) {
	router := protectedRouter()

	token, err := jwt.GenerateToken(42, "another_secret", 1)
	require.NoError(t, err)

	w := performGet(router, "Bearer "+token)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestGetAdminID_NotSet(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	_, ok := GetAdminID(c)
	assert.False(t, ok)
}
