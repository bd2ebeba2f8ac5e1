package response

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(handler gin.HandlerFunc) *httptest.ResponseRecorder {
	router := gin.New()
	router.GET("/test", handler)

	req := httptest.NewRequest("GET", "/test", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func parseResponse(t *testing.T, w *httptest.ResponseRecorder) Response {
	var resp Response
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	require.NoError(t, err)
	return resp
}

func TestSuccess(t *testing.T) {
	w := serve(func(c *gin.Context) {
		Success(c, gin.H{"key": "value"})
	})

	assert.Equal(t, http.StatusOK, w.Code)

	resp := parseResponse(t, w)
	assert.Equal(t, CodeSuccess, resp.Code)
	assert.Equal(t, "success", resp.Message)

	data, ok := resp.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "value", data["key"])
}

func TestCreated(t *testing.T) {
	w := serve(func(c *gin.Context) {
		Created(c, gin.H{"id": 1})
	})

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, CodeSuccess, parseResponse(t, w).Code)
}

func TestNoContent(t *testing.T) {
	w := serve(func(c *gin.Context) {
		NoContent(c)
	})

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Body.String())
}

func TestSuccessPage(t *testing.T) {
	w := serve(func(c *gin.Context) {
		SuccessPage(c, 42, 2, 20, []string{"a", "b"})
	})

	resp := parseResponse(t, w)
	assert.Equal(t, CodeSuccess, resp.Code)

	data := resp.Data.(map[string]interface{})
	assert.Equal(t, float64(42), data["total"])
	assert.Equal(t, float64(2), data["page"])
	assert.Equal(t, float64(20), data["page_size"])
	assert.Len(t, data["items"], 2)
}

func TestErrorHelpers(t *testing.T) {
	cases := []struct {
		name       string
		handler    gin.HandlerFunc
		wantStatus int
		wantCode   int
	}{
		{"param error", func(c *gin.Context) { ParamError(c, "bad input") }, http.StatusBadRequest, CodeParamError},
		{"auth error", func(c *gin.Context) { AuthError(c, "") }, http.StatusUnauthorized, CodeAuthFailed},
		{"not found", func(c *gin.Context) { NotFoundError(c, "") }, http.StatusNotFound, CodeResourceNotFound},
		{"conflict", func(c *gin.Context) { ConflictError(c, "") }, http.StatusBadRequest, CodeConflict},
		{"server error", func(c *gin.Context) { ServerError(c, "") }, http.StatusInternalServerError, CodeServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := serve(tc.handler)

			assert.Equal(t, tc.wantStatus, w.Code)

			resp := parseResponse(t, w)
			assert.Equal(t, tc.wantCode, resp.Code)
			assert.NotEmpty(t, resp.Message)
		})
	}
}

func TestError_DefaultMessage(t *testing.T) {
	w := serve(func(c *gin.Context) {
		Error(c, http.StatusBadRequest, CodeParamError, "")
	})

	// 空消息回退到错误码默认文案
	resp := parseResponse(t, w)
	assert.Equal(t, "参数错误", resp.Message)
}
