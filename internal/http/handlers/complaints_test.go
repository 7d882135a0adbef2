package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

func TestPresentFields(t *testing.T) {
	present := presentFields([]byte(`{"customer_name":"Asha","area":"Feroke","latitude":null}`))
	if !present["customer_name"] || !present["area"] || !present["latitude"] {
		t.Fatalf("expected sent keys present, got %v", present)
	}
	if present["pincode"] {
		t.Fatalf("unsent key must be absent")
	}
}

func TestPresentFieldsInvalidJSON(t *testing.T) {
	if present := presentFields([]byte(`not json`)); present != nil {
		t.Fatalf("expected nil for invalid payload, got %v", present)
	}
}

func newTestHandler() *Handler {
	return &Handler{Validator: validator.New(), Logger: zerolog.Nop()}
}

func TestComplaintCreateRequiresNameAndPhone(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := newTestHandler()
	r := gin.New()
	r.POST("/api/complaints", h.ComplaintCreate)

	body := `{"assign_to":"franchise","phone_model":"Pixel 7"}`
	req, _ := http.NewRequest(http.MethodPost, "/api/complaints", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestNearestOptionsRequiresLocation(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := newTestHandler()
	r := gin.New()
	r.GET("/api/complaints/nearest-options", h.NearestOptions)

	req, _ := http.NewRequest(http.MethodGet, "/api/complaints/nearest-options", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}
