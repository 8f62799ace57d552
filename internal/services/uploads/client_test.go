package uploads_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"reelflow/internal/services/uploads"
)

func TestUploadPostsMultipartAndDecodesResult(t *testing.T) {
	var gotAuth, gotBatchID, gotFileName, gotContent string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/uploads" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		gotAuth = r.Header.Get("Authorization")
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("parse multipart: %v", err)
		}
		gotBatchID = r.FormValue("batch_id")
		file, header, err := r.FormFile("file")
		if err != nil {
			t.Fatalf("form file: %v", err)
		}
		defer file.Close()
		gotFileName = header.Filename
		data, _ := io.ReadAll(file)
		gotContent = string(data)
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"url":"https://cdn.example/v/abc123","display_name":"hook-a.mp4"}`)
	}))
	defer server.Close()

	client := uploads.NewClient(uploads.Config{BaseURL: server.URL, APIKey: "secret"})
	result, err := client.Upload(context.Background(), strings.NewReader("fake video bytes"), uploads.Meta{
		FileName: "hook-a.mp4",
		BatchID:  42,
		ItemID:   7,
	})
	if err != nil {
		t.Fatalf("Upload failed: %v", err)
	}
	if result.URL != "https://cdn.example/v/abc123" {
		t.Fatalf("url = %q", result.URL)
	}
	if result.DisplayName != "hook-a.mp4" {
		t.Fatalf("display name = %q", result.DisplayName)
	}
	if gotAuth != "Bearer secret" {
		t.Fatalf("authorization = %q", gotAuth)
	}
	if gotBatchID != "42" {
		t.Fatalf("batch_id = %q", gotBatchID)
	}
	if gotFileName != "hook-a.mp4" {
		t.Fatalf("file name = %q", gotFileName)
	}
	if gotContent != "fake video bytes" {
		t.Fatalf("file content = %q", gotContent)
	}
}

func TestUploadFallsBackToFileNameForDisplayName(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"url":"https://cdn.example/v/xyz"}`)
	}))
	defer server.Close()

	client := uploads.NewClient(uploads.Config{BaseURL: server.URL})
	result, err := client.Upload(context.Background(), strings.NewReader("x"), uploads.Meta{FileName: "cut.mp4"})
	if err != nil {
		t.Fatalf("Upload failed: %v", err)
	}
	if result.DisplayName != "cut.mp4" {
		t.Fatalf("display name = %q", result.DisplayName)
	}
}

func TestUploadRejectsErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusPaymentRequired)
	}))
	defer server.Close()

	client := uploads.NewClient(uploads.Config{BaseURL: server.URL})
	_, err := client.Upload(context.Background(), strings.NewReader("x"), uploads.Meta{FileName: "cut.mp4"})
	if err == nil {
		t.Fatal("expected error for non-2xx response")
	}
	if !strings.Contains(err.Error(), "402") {
		t.Fatalf("error should carry status code: %v", err)
	}
}

func TestUploadValidatesInputs(t *testing.T) {
	client := uploads.NewClient(uploads.Config{BaseURL: "http://localhost:1"})
	if _, err := client.Upload(context.Background(), nil, uploads.Meta{FileName: "a.mp4"}); err == nil {
		t.Fatal("expected error for nil file")
	}
	if _, err := client.Upload(context.Background(), strings.NewReader("x"), uploads.Meta{}); err == nil {
		t.Fatal("expected error for missing file name")
	}
}
