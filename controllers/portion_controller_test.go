package controllers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"backend/services"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPortionTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	ctl := NewPortionController(services.NewPortionService(services.NoopPortionCache{}))
	r.POST("/portion/resolve", func(c *gin.Context) {
		c.Set("userID", uint(1))
		ctl.Resolve(c)
	})
	return r
}

func postResolve(t *testing.T, r *gin.Engine, body any) *httptest.ResponseRecorder {
	raw, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/portion/resolve", bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestResolveEndpoint_FullProduct(t *testing.T) {
	r := newPortionTestRouter()

	w := postResolve(t, r, gin.H{
		"product": gin.H{
			"name":           "Corn Flakes",
			"serving_size_g": 55,
		},
		"ocr_text": "Serving Size 55g\nCalories 210",
	})

	require.Equal(t, http.StatusOK, w.Code)

	var result services.PortionResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.Equal(t, services.SourceDatabase, result.Source)
	assert.Equal(t, 55, result.Grams)
	assert.NotEmpty(t, result.Candidates)
}

func TestResolveEndpoint_EmptyProductStillResolves(t *testing.T) {
	r := newPortionTestRouter()

	w := postResolve(t, r, gin.H{"product": gin.H{}})

	require.Equal(t, http.StatusOK, w.Code)

	var result services.PortionResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.Equal(t, services.SourceFallback, result.Source)
	assert.Equal(t, 30, result.Grams)
}

func TestResolveEndpoint_MalformedJSON(t *testing.T) {
	r := newPortionTestRouter()

	req := httptest.NewRequest(http.MethodPost, "/portion/resolve", bytes.NewReader([]byte("{not json")))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
