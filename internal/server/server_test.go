// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/cxr-trainer/internal/library"
	"github.com/pdiddy/cxr-trainer/internal/store"
	"github.com/pdiddy/cxr-trainer/pkg/types"
)

func setupServer(t *testing.T) *Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	lib, err := library.Load()
	require.NoError(t, err)

	st, err := store.NewStore(types.StoreConfig{DataDir: t.TempDir()})
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	require.NoError(t, st.IndexLibrary(context.Background(), lib))

	return New(types.Config{}, lib, st)
}

func doJSON(t *testing.T, s *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	s.Router().ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestHealthz(t *testing.T) {
	s := setupServer(t)

	w := doJSON(t, s, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", decode(t, w)["status"])
}

func TestRequestIDHeader(t *testing.T) {
	s := setupServer(t)

	w := doJSON(t, s, http.MethodGet, "/healthz", nil)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	req, _ := http.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("X-Request-ID", "trace-42")
	w = httptest.NewRecorder()
	s.Router().ServeHTTP(w, req)
	assert.Equal(t, "trace-42", w.Header().Get("X-Request-ID"))
}

func TestIndexPage(t *testing.T) {
	s := setupServer(t)

	w := doJSON(t, s, http.MethodGet, "/", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "CXR Trainer")
	assert.Contains(t, w.Body.String(), "mediastinum")
}

func TestGetChecklist(t *testing.T) {
	s := setupServer(t)

	w := doJSON(t, s, http.MethodGet, "/api/v1/library/checklist", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	resp := decode(t, w)
	assert.Len(t, resp["sequence"], len(types.ReviewSequence))
	assert.NotEmpty(t, resp["categories"])
}

func TestGetDifferentials(t *testing.T) {
	s := setupServer(t)

	w := doJSON(t, s, http.MethodGet, "/api/v1/library/differentials?pattern=reticular&distribution=lower_zones", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	resp := decode(t, w)
	assert.NotEmpty(t, resp["differentials"])
}

func TestGetDifferentials_MissingPattern(t *testing.T) {
	s := setupServer(t)

	w := doJSON(t, s, http.MethodGet, "/api/v1/library/differentials", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAssessTechnical(t *testing.T) {
	s := setupServer(t)

	sel := map[types.TechnicalFactor]types.FactorSelections{
		types.FactorInspiration: {
			Choices:           map[string]string{"insp-diaphragm": "Normal (6th anterior/10th posterior)"},
			PosteriorRibCount: 9,
		},
	}
	w := doJSON(t, s, http.MethodPost, "/api/v1/assess/technical", sel)
	assert.Equal(t, http.StatusOK, w.Code)

	resp := decode(t, w)
	assert.NotEmpty(t, resp["factors"])
	assert.NotEmpty(t, resp["overall"])
}

func TestClassifyPattern_SmallOpacity(t *testing.T) {
	s := setupServer(t)

	sel := types.PatternSelections{
		Kind:          types.PatternSmallOpacity,
		Code:          types.ILOq,
		Profusion:     2,
		Distributions: []types.Distribution{types.DistUpperZones},
	}
	w := doJSON(t, s, http.MethodPost, "/api/v1/patterns/classify", sel)
	assert.Equal(t, http.StatusOK, w.Code)

	resp := decode(t, w)
	analysis, ok := resp["analysis"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "q", analysis["code"])
}

func TestClassifyPattern_InvalidCode(t *testing.T) {
	s := setupServer(t)

	sel := types.PatternSelections{Kind: types.PatternSmallOpacity, Code: "z"}
	w := doJSON(t, s, http.MethodPost, "/api/v1/patterns/classify", sel)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestClassifyPattern_FeatureMatching(t *testing.T) {
	s := setupServer(t)

	sel := types.PatternSelections{
		Features:      []string{"air_bronchograms", "confluent_opacity"},
		Distributions: []types.Distribution{types.DistPerihilar},
	}
	w := doJSON(t, s, http.MethodPost, "/api/v1/patterns/classify", sel)
	assert.Equal(t, http.StatusOK, w.Code)

	resp := decode(t, w)
	assert.NotEmpty(t, resp["matches"])
}

func TestClassifyPattern_Empty(t *testing.T) {
	s := setupServer(t)

	w := doJSON(t, s, http.MethodPost, "/api/v1/patterns/classify", types.PatternSelections{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSessionLifecycle(t *testing.T) {
	s := setupServer(t)

	// Create
	w := doJSON(t, s, http.MethodPost, "/api/v1/sessions", map[string]string{"kind": "review"})
	require.Equal(t, http.StatusCreated, w.Code)
	id, _ := decode(t, w)["id"].(string)
	require.NotEmpty(t, id)

	// Update one region and a technical factor
	update := map[string]any{
		"technical": map[string]any{
			"positioning": map[string]any{
				"choices": map[string]string{"pos-rotation": "Midway between clavicles (no rotation)"},
			},
		},
		"regions": map[string]any{
			"lungs": map[string]any{"findings": "Right upper zone air space opacity"},
		},
	}
	w = doJSON(t, s, http.MethodPut, "/api/v1/sessions/"+id, update)
	assert.Equal(t, http.StatusOK, w.Code)

	// List includes it
	w = doJSON(t, s, http.MethodGet, "/api/v1/sessions", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(1), decode(t, w)["total"])

	// Report carries the selections verbatim
	w = doJSON(t, s, http.MethodGet, "/api/v1/sessions/"+id+"/report", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Right upper zone air space opacity")
	assert.Contains(t, w.Body.String(), "Midway between clavicles (no rotation)")

	// Delete, then gone
	w = doJSON(t, s, http.MethodDelete, "/api/v1/sessions/"+id, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	w = doJSON(t, s, http.MethodGet, "/api/v1/sessions/"+id, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUpdateSession_InvalidRegion(t *testing.T) {
	s := setupServer(t)

	w := doJSON(t, s, http.MethodPost, "/api/v1/sessions", map[string]string{"kind": "review"})
	require.Equal(t, http.StatusCreated, w.Code)
	id, _ := decode(t, w)["id"].(string)

	update := map[string]any{
		"regions": map[string]any{"abdomen": map[string]any{"findings": "free air"}},
	}
	w = doJSON(t, s, http.MethodPut, "/api/v1/sessions/"+id, update)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetSession_NotFound(t *testing.T) {
	s := setupServer(t)

	w := doJSON(t, s, http.MethodGet, "/api/v1/sessions/no-such-id", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSessionReport_BadFormat(t *testing.T) {
	s := setupServer(t)

	w := doJSON(t, s, http.MethodPost, "/api/v1/sessions", map[string]string{"kind": "review"})
	require.Equal(t, http.StatusCreated, w.Code)
	id, _ := decode(t, w)["id"].(string)

	w = doJSON(t, s, http.MethodGet, "/api/v1/sessions/"+id+"/report?format=xml", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListCases_FilterByDifficulty(t *testing.T) {
	s := setupServer(t)

	w := doJSON(t, s, http.MethodGet, "/api/v1/cases?difficulty=beginner", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	resp := decode(t, w)
	cases, ok := resp["cases"].([]any)
	require.True(t, ok)
	require.NotEmpty(t, cases)
	for _, raw := range cases {
		entry := raw.(map[string]any)
		assert.Equal(t, "beginner", entry["difficulty"])
	}
}

func TestGetCase_HidesAnswerUntilReveal(t *testing.T) {
	s := setupServer(t)

	w := doJSON(t, s, http.MethodGet, "/api/v1/cases/case-rul-pneumonia", nil)
	require.Equal(t, http.StatusOK, w.Code)
	resp := decode(t, w)
	assert.Empty(t, resp["diagnosis"])
	assert.NotEmpty(t, resp["history"])

	w = doJSON(t, s, http.MethodGet, "/api/v1/cases/case-rul-pneumonia?reveal=true", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, decode(t, w)["diagnosis"])
}

func TestGetCase_NotFound(t *testing.T) {
	s := setupServer(t)

	w := doJSON(t, s, http.MethodGet, "/api/v1/cases/case-missing", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreateCase_ConflictWithBuiltIn(t *testing.T) {
	s := setupServer(t)

	custom := types.Case{
		ID: "case-rul-pneumonia", Title: "Duplicate", Diagnosis: "x",
		Difficulty: types.DifficultyBeginner, Category: types.CategoryAirSpace,
	}
	w := doJSON(t, s, http.MethodPost, "/api/v1/cases", custom)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestCreateCase_Invalid(t *testing.T) {
	s := setupServer(t)

	w := doJSON(t, s, http.MethodPost, "/api/v1/cases", types.Case{ID: "case-x"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAttemptAndProgress(t *testing.T) {
	s := setupServer(t)

	w := doJSON(t, s, http.MethodPost, "/api/v1/sessions",
		map[string]string{"kind": "case", "case_id": "case-rul-pneumonia"})
	require.Equal(t, http.StatusCreated, w.Code)
	sessionID, _ := decode(t, w)["id"].(string)

	attempt := map[string]any{
		"session_id":          sessionID,
		"submitted_diagnosis": "Right upper lobe pneumonia",
		"correct":             true,
	}
	w = doJSON(t, s, http.MethodPost, "/api/v1/cases/case-rul-pneumonia/attempts", attempt)
	require.Equal(t, http.StatusCreated, w.Code)
	resp := decode(t, w)
	assert.NotEmpty(t, resp["diagnosis"])

	w = doJSON(t, s, http.MethodGet, "/api/v1/progress", nil)
	require.Equal(t, http.StatusOK, w.Code)
	progress := decode(t, w)
	assert.Equal(t, float64(1), progress["attempt_count"])
	assert.Equal(t, float64(1), progress["correct_count"])
}

func TestProgressRegionCompletion(t *testing.T) {
	s := setupServer(t)

	w := doJSON(t, s, http.MethodPost, "/api/v1/sessions",
		map[string]string{"kind": "case", "case_id": "case-rul-pneumonia"})
	require.Equal(t, http.StatusCreated, w.Code)
	sessionID, _ := decode(t, w)["id"].(string)

	update := map[string]any{
		"regions": map[string]any{
			"lungs": map[string]any{"findings": "Right upper zone opacity"},
		},
	}
	w = doJSON(t, s, http.MethodPut, "/api/v1/sessions/"+sessionID, update)
	require.Equal(t, http.StatusOK, w.Code)

	attempt := map[string]any{
		"session_id":          sessionID,
		"submitted_diagnosis": "Right upper lobe pneumonia",
		"correct":             true,
	}
	w = doJSON(t, s, http.MethodPost, "/api/v1/cases/case-rul-pneumonia/attempts", attempt)
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, s, http.MethodGet, "/api/v1/progress", nil)
	require.Equal(t, http.StatusOK, w.Code)
	progress := decode(t, w)

	byRegion, ok := progress["by_region"].(map[string]any)
	require.True(t, ok, "progress response missing by_region")
	assert.Equal(t, float64(1), byRegion["lungs"])
	assert.Equal(t, float64(1), progress["avg_regions_reviewed"])
}

func TestSessionReview(t *testing.T) {
	s := setupServer(t)

	w := doJSON(t, s, http.MethodPost, "/api/v1/sessions", map[string]string{"kind": "review"})
	require.Equal(t, http.StatusCreated, w.Code)
	sessionID, _ := decode(t, w)["id"].(string)

	update := map[string]any{
		"regions": map[string]any{
			"mediastinum": map[string]any{
				"checked_items": []string{"med-ctr"},
				"findings":      "Heart size normal",
			},
		},
	}
	w = doJSON(t, s, http.MethodPut, "/api/v1/sessions/"+sessionID, update)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, s, http.MethodGet, "/api/v1/sessions/"+sessionID+"/review", nil)
	require.Equal(t, http.StatusOK, w.Code)
	resp := decode(t, w)
	assert.Equal(t, sessionID, resp["session_id"])

	regions, ok := resp["regions"].([]any)
	require.True(t, ok, "review response missing regions")
	assert.Len(t, regions, len(types.ReviewSequence))

	var sawMediastinum bool
	for _, raw := range regions {
		row, _ := raw.(map[string]any)
		if row["region"] != "mediastinum" {
			assert.Equal(t, false, row["complete"], "region %v", row["region"])
			continue
		}
		sawMediastinum = true
		assert.Equal(t, true, row["complete"])
		assert.Equal(t, float64(1), row["checked"])
		assert.Equal(t, "Heart size normal", row["findings"])
	}
	assert.True(t, sawMediastinum)
}

func TestSessionReview_NotFound(t *testing.T) {
	s := setupServer(t)

	w := doJSON(t, s, http.MethodGet, "/api/v1/sessions/no-such/review", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRecordAttempt_MissingFields(t *testing.T) {
	s := setupServer(t)

	w := doJSON(t, s, http.MethodPost, "/api/v1/cases/case-rul-pneumonia/attempts", map[string]any{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSearch(t *testing.T) {
	s := setupServer(t)

	w := doJSON(t, s, http.MethodGet, "/api/v1/search?q=carina", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	resp := decode(t, w)
	assert.NotEmpty(t, resp["results"])
}

func TestSearch_EmptyQuery(t *testing.T) {
	s := setupServer(t)

	w := doJSON(t, s, http.MethodGet, "/api/v1/search", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
