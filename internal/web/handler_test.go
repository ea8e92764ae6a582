package web

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/ira-labs/pem-ranker/internal/ranker"
)

var ginModeOnce sync.Once

func setupGinTestMode() {
	ginModeOnce.Do(func() {
		gin.SetMode(gin.TestMode)
	})
}

func newTestRouter() *gin.Engine {
	setupGinTestMode()
	r := gin.New()
	r.GET("/health", healthHandler)
	r.POST("/rank", rankHandler)
	return r
}

func validRankBody() map[string]any {
	return map[string]any{
		"params": map[string]any{
			"k":                         3,
			"mmr_lambda":                0.7,
			"confidence_floor":          0.5,
			"recency_half_life_days":    14,
			"skeleton_filter_threshold": 0.6,
			"allow_repeat_depth":        3,
			"allow_repeat_min_hours":    24,
			"success_bonus_alpha":       0.03,
		},
		"query": map[string]any{
			"student_id":            "student-1",
			"pemType":               "NameError",
			"pemSkeleton":           "NameError: name '<VAR>' is not defined",
			"timestamp":             "2026-03-01T12:00:00Z",
			"activeFile_hash":       "H:main.py",
			"workingDirectory_hash": "W:proj",
			"directoryTree":         []string{"main.py"},
			"packages":              []string{"numpy"},
			"pythonVersion":         "3.11.5",
			"resolutionDepth":       nil,
		},
		"candidates": []map[string]any{
			{
				"id":                    "pemA",
				"vector_similarity":     0.84,
				"pemSkeleton":           "NameError: name '<VAR>' is not defined",
				"timestamp":             "2026-02-28T12:00:00Z",
				"activeFile_hash":       "H:main.py",
				"workingDirectory_hash": "W:proj",
				"directoryTree":         []string{"main.py"},
				"packages":              []string{"numpy"},
				"pythonVersion":         "3.11.5",
				"resolutionDepth":       2,
			},
		},
	}
}

func TestHealthEndpoint(t *testing.T) {
	router := newTestRouter()
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"ok":true}`, rec.Body.String())
}

func TestRankEndpointHappyPath(t *testing.T) {
	router := newTestRouter()
	body, err := json.Marshal(validRankBody())
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/rank", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotEmpty(t, rec.Header().Get("X-Ranker-Latency-ms"))

	var resp ranker.RankResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.False(t, resp.Abstain)
	require.NotNil(t, resp.Best)
	require.Equal(t, "pemA", resp.Best.ID)
}

func TestRankEndpointRejectsUnknownFields(t *testing.T) {
	router := newTestRouter()
	payload := validRankBody()
	payload["unexpected_field"] = "nope"
	body, err := json.Marshal(payload)
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/rank", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRankEndpointRejectsOutOfRangeParams(t *testing.T) {
	router := newTestRouter()
	payload := validRankBody()
	payload["params"].(map[string]any)["k"] = 99
	body, err := json.Marshal(payload)
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/rank", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRankEndpointEmptyCandidatesAbstains(t *testing.T) {
	router := newTestRouter()
	payload := validRankBody()
	payload["candidates"] = []map[string]any{}
	body, err := json.Marshal(payload)
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/rank", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp ranker.RankResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.True(t, resp.Abstain)
	require.Equal(t, "no_candidates", *resp.Reason)
}
