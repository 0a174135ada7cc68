package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestWriteJSONEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	writeJSON(rec, http.StatusCreated, map[string]string{"key": "value"})

	if rec.Code != http.StatusCreated {
		t.Errorf("status: got %d, want 201", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("content type: got %q", ct)
	}

	var body struct {
		Success bool              `json:"success"`
		Data    map[string]string `json:"data"`
		Error   *apiError         `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !body.Success {
		t.Error("expected success=true")
	}
	if body.Data["key"] != "value" {
		t.Errorf("data: got %v", body.Data)
	}
	if body.Error != nil {
		t.Error("success envelope must omit error")
	}
}

func TestWriteErrorEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	writeError(rec, http.StatusNotFound, "NOT_FOUND", "Thing not found")

	if rec.Code != http.StatusNotFound {
		t.Errorf("status: got %d, want 404", rec.Code)
	}

	var body struct {
		Success bool      `json:"success"`
		Data    any       `json:"data"`
		Error   *apiError `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if body.Success {
		t.Error("expected success=false")
	}
	if body.Data != nil {
		t.Error("error envelope must omit data")
	}
	if body.Error == nil || body.Error.Code != "NOT_FOUND" || body.Error.Message != "Thing not found" {
		t.Errorf("error: got %+v", body.Error)
	}
}

func TestDecodeJSONRejectsGarbage(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()

	var dst map[string]any
	if decodeJSON(rec, req, &dst) {
		t.Fatal("expected decode failure")
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status: got %d, want 400", rec.Code)
	}

	var body struct {
		Error *apiError `json:"error"`
	}
	json.Unmarshal(rec.Body.Bytes(), &body)
	if body.Error == nil || body.Error.Code != "INVALID_JSON" {
		t.Errorf("error: got %+v", body.Error)
	}
}
