package handler

import (
	"bytes"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/clausecloud/backend/model"
	"github.com/gin-gonic/gin"
)

func TestAnalyzeTextAndGet(t *testing.T) {
	env := newTestEnv()

	id := env.analyzeText(t, "This agreement is between A and B.")

	w := env.request(t, http.MethodGet, "/api/contracts/"+id, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Get status = %d", w.Code)
	}

	body := decodeBody(t, w)
	contract, _ := body["contract"].(map[string]any)
	if contract == nil {
		t.Fatal("Response missing contract")
	}
	if contract["text"] != "This agreement is between A and B." {
		t.Errorf("Stored text = %v", contract["text"])
	}
	if contract["filename"] != "Pasted Text Contract" {
		t.Errorf("Filename = %v, want Pasted Text Contract", contract["filename"])
	}
	if contract["analysis"] == nil {
		t.Error("Stored contract missing analysis")
	}
}

func TestAnalyzeTextValidation(t *testing.T) {
	env := newTestEnv()

	tests := []struct {
		name string
		body any
	}{
		{"missing text", gin.H{}},
		{"empty text", gin.H{"text": ""}},
		{"whitespace text", gin.H{"text": "   \n  "}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.request(t, http.MethodPost, "/api/contracts/analyze-text", tt.body)
			if w.Code != http.StatusBadRequest {
				t.Errorf("Status = %d, want 400", w.Code)
			}
			if decodeBody(t, w)["error"] != "Contract text is required" {
				t.Errorf("Unexpected error message: %s", w.Body.String())
			}
		})
	}
}

func TestAnalyzeTextUpstreamFailure(t *testing.T) {
	env := newTestEnv()
	env.llm.analyzeErr = errors.New("completion service failure")

	w := env.request(t, http.MethodPost, "/api/contracts/analyze-text", gin.H{"text": "some contract"})
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("Status = %d, want 500", w.Code)
	}
	if decodeBody(t, w)["error"] != "Failed to analyze contract" {
		t.Errorf("Unexpected error message: %s", w.Body.String())
	}
	if env.contracts.Count() != 0 {
		t.Error("Failed analysis must not store a contract")
	}
}

func TestAnalyzeUpload(t *testing.T) {
	env := newTestEnv()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("contract", "msa.txt")
	if err != nil {
		t.Fatalf("CreateFormFile: %v", err)
	}
	part.Write([]byte("Master Services Agreement body"))
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/contracts/analyze", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Status = %d, body %s", w.Code, w.Body.String())
	}

	body := decodeBody(t, w)
	if body["success"] != true {
		t.Error("Expected success response")
	}
	id, _ := body["contractId"].(string)
	stored := env.contracts.GetByID(id)
	if stored == nil {
		t.Fatal("Uploaded contract not stored")
	}
	if stored.Filename != "msa.txt" {
		t.Errorf("Filename = %q", stored.Filename)
	}
	if stored.Text != "Master Services Agreement body" {
		t.Errorf("Text = %q", stored.Text)
	}
}

func TestAnalyzeUploadNoFile(t *testing.T) {
	env := newTestEnv()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/contracts/analyze", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("Status = %d, want 400", w.Code)
	}
	if decodeBody(t, w)["error"] != "No file uploaded" {
		t.Errorf("Unexpected error message: %s", w.Body.String())
	}
}

func TestListAndSearch(t *testing.T) {
	env := newTestEnv()

	env.analyzeText(t, "AWS hosting agreement with Amazon Web Services")
	env.analyzeText(t, "Office lease for downtown premises")

	w := env.request(t, http.MethodGet, "/api/contracts", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("List status = %d", w.Code)
	}
	body := decodeBody(t, w)
	if body["count"] != float64(2) {
		t.Errorf("count = %v, want 2", body["count"])
	}

	w = env.request(t, http.MethodGet, "/api/contracts?q=aws", nil)
	body = decodeBody(t, w)
	if body["count"] != float64(1) {
		t.Errorf("Search count = %v, want 1", body["count"])
	}

	w = env.request(t, http.MethodGet, "/api/contracts?q=nonexistent", nil)
	body = decodeBody(t, w)
	if body["count"] != float64(0) {
		t.Errorf("Search count = %v, want 0", body["count"])
	}
	if body["contracts"] == nil {
		t.Error("Empty search must return an empty array, not null")
	}
}

func TestGetUnknownContract(t *testing.T) {
	env := newTestEnv()

	w := env.request(t, http.MethodGet, "/api/contracts/no-such-id", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("Status = %d, want 404", w.Code)
	}
	if decodeBody(t, w)["error"] != "Contract not found" {
		t.Errorf("Unexpected error message: %s", w.Body.String())
	}
}

func TestDeleteContract(t *testing.T) {
	env := newTestEnv()
	id := env.analyzeText(t, "short lived contract")

	w := env.request(t, http.MethodDelete, "/api/contracts/"+id, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Delete status = %d", w.Code)
	}
	if decodeBody(t, w)["message"] != "Contract deleted successfully" {
		t.Errorf("Unexpected message: %s", w.Body.String())
	}

	// Second delete finds nothing
	w = env.request(t, http.MethodDelete, "/api/contracts/"+id, nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("Second delete status = %d, want 404", w.Code)
	}
}

func TestCompareValidation(t *testing.T) {
	env := newTestEnv()
	id := env.analyzeText(t, "only contract")

	tests := []struct {
		name       string
		body       any
		wantStatus int
		wantError  string
	}{
		{"no ids", gin.H{"contractIds": []string{}}, http.StatusBadRequest, "At least 2 contract IDs are required"},
		{"one id", gin.H{"contractIds": []string{id}}, http.StatusBadRequest, "At least 2 contract IDs are required"},
		{"unknown ids", gin.H{"contractIds": []string{id, "missing"}}, http.StatusNotFound, "One or more contracts not found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.request(t, http.MethodPost, "/api/contracts/compare", tt.body)
			if w.Code != tt.wantStatus {
				t.Errorf("Status = %d, want %d", w.Code, tt.wantStatus)
			}
			if decodeBody(t, w)["error"] != tt.wantError {
				t.Errorf("Unexpected error message: %s", w.Body.String())
			}
		})
	}
}

func TestCompare(t *testing.T) {
	env := newTestEnv()
	id1 := env.analyzeText(t, "first vendor contract")
	id2 := env.analyzeText(t, "second vendor contract")

	env.llm.comparison = &model.Comparison{
		BestChoiceID: id2,
		Reasoning:    []string{"better termination terms"},
	}

	w := env.request(t, http.MethodPost, "/api/contracts/compare", gin.H{"contractIds": []string{id1, id2}})
	if w.Code != http.StatusOK {
		t.Fatalf("Status = %d, body %s", w.Code, w.Body.String())
	}

	body := decodeBody(t, w)
	comparison, _ := body["comparison"].(map[string]any)
	if comparison == nil {
		t.Fatal("Response missing comparison")
	}
	if comparison["bestChoiceId"] != id2 {
		t.Errorf("bestChoiceId = %v, want %s", comparison["bestChoiceId"], id2)
	}
	if env.llm.lastWeights != nil {
		t.Error("Compare must not pass weights")
	}
}

func TestRecommendationPassesWeights(t *testing.T) {
	env := newTestEnv()
	id1 := env.analyzeText(t, "first")
	id2 := env.analyzeText(t, "second")

	w := env.request(t, http.MethodPost, "/api/contracts/recommendation", gin.H{
		"contractIds": []string{id1, id2},
		"weights":     gin.H{"cost": 0.7, "risk": 0.3},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("Status = %d, body %s", w.Code, w.Body.String())
	}

	if env.llm.lastWeights["cost"] != 0.7 {
		t.Errorf("Weights not forwarded: %v", env.llm.lastWeights)
	}
	if decodeBody(t, w)["recommendation"] == nil {
		t.Error("Response missing recommendation")
	}
}

func TestCompareUpstreamFailure(t *testing.T) {
	env := newTestEnv()
	id1 := env.analyzeText(t, "first")
	id2 := env.analyzeText(t, "second")
	env.llm.compareErr = errors.New("completion service failure")

	w := env.request(t, http.MethodPost, "/api/contracts/compare", gin.H{"contractIds": []string{id1, id2}})
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("Status = %d, want 500", w.Code)
	}
}

func TestUploadContentType(t *testing.T) {
	tests := []struct {
		declared string
		filename string
		want     string
	}{
		{"application/pdf", "contract.pdf", "application/pdf"},
		{"application/pdf; charset=binary", "contract.pdf", "application/pdf"},
		{"", "contract.pdf", "application/pdf"},
		{"application/octet-stream", "scan.jpeg", "image/jpeg"},
		{"", "notes.TXT", "text/plain"},
		{"", "archive.zip", ""},
	}

	for _, tt := range tests {
		if got := uploadContentType(tt.declared, tt.filename); got != tt.want {
			t.Errorf("uploadContentType(%q, %q) = %q, want %q", tt.declared, tt.filename, got, tt.want)
		}
	}
}
