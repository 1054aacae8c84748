// internal/api/v2/records.go
package api

import (
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Preetham2004H/plant-ml/internal/datastore"
)

// maxPayloadBytes caps a saved document's size.
const maxPayloadBytes = 1 << 20 // 1 MB

// savedDocument is the wire shape of a stored report or diagnosis. The
// payload round-trips as the JSON the client originally sent.
type savedDocument struct {
	ID        uint            `json:"id"`
	Payload   json.RawMessage `json:"payload"`
	CreatedAt time.Time       `json:"created_at"`
}

// detectionRecord is the wire shape of one detection history entry.
type detectionRecord struct {
	AttemptID   string    `json:"attempt_id"`
	PlantName   string    `json:"plant_name"`
	DiseaseName string    `json:"disease_name,omitempty"`
	Confidence  *float64  `json:"confidence,omitempty"`
	Method      string    `json:"method"`
	Language    string    `json:"language"`
	Result      string    `json:"result,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// readPayload validates the request body as a JSON document and returns it
// verbatim for storage.
func readPayload(ctx echo.Context) (string, bool) {
	body, err := io.ReadAll(io.LimitReader(ctx.Request().Body, maxPayloadBytes))
	if err != nil || len(body) == 0 || !json.Valid(body) {
		return "", false
	}
	return string(body), true
}

// SaveReport handles POST /api/v2/records/reports
func (c *Controller) SaveReport(ctx echo.Context) error {
	payload, ok := readPayload(ctx)
	if !ok {
		return c.fail(ctx, http.StatusBadRequest, "Invalid report payload")
	}

	report := &datastore.SavedReport{
		UserID:    ctx.Get("user_id").(uint),
		Payload:   payload,
		CreatedAt: time.Now(),
	}
	if err := c.DS.SaveReport(report); err != nil {
		return c.serverError(ctx, "save_report", err)
	}

	return ctx.JSON(http.StatusCreated, statusResponse{Success: true, Message: "Report saved"})
}

// SaveDiagnosis handles POST /api/v2/records/diagnoses
func (c *Controller) SaveDiagnosis(ctx echo.Context) error {
	payload, ok := readPayload(ctx)
	if !ok {
		return c.fail(ctx, http.StatusBadRequest, "Invalid diagnosis payload")
	}

	diagnosis := &datastore.DiagnosisRecord{
		UserID:    ctx.Get("user_id").(uint),
		Payload:   payload,
		CreatedAt: time.Now(),
	}
	if err := c.DS.SaveDiagnosis(diagnosis); err != nil {
		return c.serverError(ctx, "save_diagnosis", err)
	}

	return ctx.JSON(http.StatusCreated, statusResponse{Success: true, Message: "Diagnosis saved"})
}

// GetSavedRecords handles GET /api/v2/records and returns the user's saved
// reports and diagnoses, newest first.
func (c *Controller) GetSavedRecords(ctx echo.Context) error {
	userID := ctx.Get("user_id").(uint)

	reports, err := c.DS.GetReports(userID)
	if err != nil {
		return c.serverError(ctx, "get_records", err)
	}
	diagnoses, err := c.DS.GetDiagnoses(userID)
	if err != nil {
		return c.serverError(ctx, "get_records", err)
	}

	reportDocs := make([]savedDocument, 0, len(reports))
	for _, r := range reports {
		reportDocs = append(reportDocs, savedDocument{
			ID:        r.ID,
			Payload:   json.RawMessage(r.Payload),
			CreatedAt: r.CreatedAt,
		})
	}
	diagnosisDocs := make([]savedDocument, 0, len(diagnoses))
	for _, d := range diagnoses {
		diagnosisDocs = append(diagnosisDocs, savedDocument{
			ID:        d.ID,
			Payload:   json.RawMessage(d.Payload),
			CreatedAt: d.CreatedAt,
		})
	}

	return ctx.JSON(http.StatusOK, map[string]any{
		"success":   true,
		"reports":   reportDocs,
		"diagnoses": diagnosisDocs,
	})
}

// GetDetectionHistory handles GET /api/v2/detections and returns the
// user's past detection attempts.
func (c *Controller) GetDetectionHistory(ctx echo.Context) error {
	userID := ctx.Get("user_id").(uint)

	detections, err := c.DS.GetDetections(userID)
	if err != nil {
		return c.serverError(ctx, "get_detections", err)
	}

	records := make([]detectionRecord, 0, len(detections))
	for _, d := range detections {
		records = append(records, detectionRecord{
			AttemptID:   d.AttemptID,
			PlantName:   d.PlantName,
			DiseaseName: d.DiseaseName,
			Confidence:  d.Confidence,
			Method:      wireMethod(d.Method),
			Language:    d.Language,
			Result:      d.Result,
			CreatedAt:   d.CreatedAt,
		})
	}

	return ctx.JSON(http.StatusOK, map[string]any{
		"success":    true,
		"detections": records,
	})
}
