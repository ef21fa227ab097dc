package httpx

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestOKEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	OK(rec, http.StatusOK, map[string]int{"id": 1})

	if ct := rec.Header().Get("Content-Type"); ct != "application/json; charset=utf-8" {
		t.Errorf("Content-Type = %q", ct)
	}
	var body map[string]any
	_ = json.Unmarshal(rec.Body.Bytes(), &body)
	if body["success"] != true {
		t.Errorf("body = %v", body)
	}
	if _, ok := body["message"]; ok {
		t.Error("message present on success")
	}
}

func TestFailEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	Fail(rec, http.StatusBadRequest, "Payment method is required.", "", nil)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("code = %d", rec.Code)
	}
	var body map[string]any
	_ = json.Unmarshal(rec.Body.Bytes(), &body)
	if body["success"] != false || body["message"] != "Payment method is required." {
		t.Errorf("body = %v", body)
	}
	if _, ok := body["error"]; ok {
		t.Error("empty detail should be omitted")
	}
}
