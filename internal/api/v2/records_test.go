package api

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Preetham2004H/plant-ml/internal/datastore"
)

func TestRecordsRequireAuth(t *testing.T) {
	env := newTestEnv(t)

	paths := []struct {
		method string
		path   string
	}{
		{http.MethodPost, "/api/v2/records/reports"},
		{http.MethodPost, "/api/v2/records/diagnoses"},
		{http.MethodGet, "/api/v2/records"},
		{http.MethodGet, "/api/v2/detections"},
	}
	for _, p := range paths {
		rec := env.doJSON(p.method, p.path, map[string]string{"note": "x"}, nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, "%s %s", p.method, p.path)
	}
}

func TestSaveAndGetRecords(t *testing.T) {
	env := newTestEnv(t)
	userID, cookies := env.signIn(t, "Asha", "asha@example.com")

	rec := env.doJSON(http.MethodPost, "/api/v2/records/reports", map[string]any{
		"plant": "Tomato", "disease": "Late blight",
	}, cookies)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = env.doJSON(http.MethodPost, "/api/v2/records/diagnoses", map[string]any{
		"diagnosis": "fungal",
	}, cookies)
	require.Equal(t, http.StatusCreated, rec.Code)

	require.Len(t, env.store.reports, 1)
	assert.Equal(t, userID, env.store.reports[0].UserID)

	rec = env.doJSON(http.MethodGet, "/api/v2/records", nil, cookies)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)

	reports, ok := body["reports"].([]any)
	require.True(t, ok)
	require.Len(t, reports, 1)
	report, ok := reports[0].(map[string]any)
	require.True(t, ok)
	payload, ok := report["payload"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Tomato", payload["plant"])

	diagnoses, ok := body["diagnoses"].([]any)
	require.True(t, ok)
	assert.Len(t, diagnoses, 1)
}

func TestSaveReportRejectsInvalidJSON(t *testing.T) {
	env := newTestEnv(t)
	_, cookies := env.signIn(t, "Asha", "asha@example.com")

	req := env.doJSON(http.MethodPost, "/api/v2/records/reports", nil, cookies)

	require.Equal(t, http.StatusBadRequest, req.Code)
	assert.Empty(t, env.store.reports)
}

func TestRecordsDoNotLeakAcrossUsers(t *testing.T) {
	env := newTestEnv(t)
	_, ashaCookies := env.signIn(t, "Asha", "asha@example.com")
	_, raviCookies := env.signIn(t, "Ravi", "ravi@example.com")

	rec := env.doJSON(http.MethodPost, "/api/v2/records/reports", map[string]any{
		"plant": "Potato",
	}, ashaCookies)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = env.doJSON(http.MethodGet, "/api/v2/records", nil, raviCookies)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)

	reports, ok := body["reports"].([]any)
	require.True(t, ok)
	assert.Empty(t, reports)
}

func TestGetDetectionHistory(t *testing.T) {
	env := newTestEnv(t)
	userID, cookies := env.signIn(t, "Asha", "asha@example.com")

	confidence := 0.88
	require.NoError(t, env.store.SaveDetection(&datastore.Detection{
		AttemptID:   "a1",
		UserID:      &userID,
		PlantName:   "Tomato",
		DiseaseName: "Late blight",
		Confidence:  &confidence,
		Method:      datastore.MethodModel,
		Language:    "English",
		CreatedAt:   time.Now(),
	}))
	require.NoError(t, env.store.SaveDetection(&datastore.Detection{
		AttemptID: "a2",
		UserID:    &userID,
		PlantName: "Potato",
		Method:    datastore.MethodFallbackAI,
		Language:  "Hindi",
		Result:    "Likely early blight.",
		CreatedAt: time.Now(),
	}))

	rec := env.doJSON(http.MethodGet, "/api/v2/detections", nil, cookies)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)

	detections, ok := body["detections"].([]any)
	require.True(t, ok)
	require.Len(t, detections, 2)

	first, ok := detections[0].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "model", first["method"])
	assert.InDelta(t, 0.88, first["confidence"].(float64), 0.0001)

	// The stored fallback method is translated for the wire
	second, ok := detections[1].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "gemini", second["method"])
	assert.Equal(t, "Likely early blight.", second["result"])
}
