package history

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"postcraft/internal/outline"
)

func newTestClient(handler http.Handler) (*Client, *httptest.Server) {
	srv := httptest.NewServer(handler)
	return New(srv.URL, 5*time.Second), srv
}

func TestCreateHistory_Success(t *testing.T) {
	var gotPath string
	var gotBody createRequest

	client, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		json.NewDecoder(r.Body).Decode(&gotBody)
		json.NewEncoder(w).Encode(createResponse{Success: true, RecordID: "rec-77"})
	}))
	defer srv.Close()

	o := *outline.Parse("A" + outline.PageSeparator + "B")
	id, err := client.CreateHistory(context.Background(), "weekend trips", o, "task-1", &Content{Titles: []string{"t"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id != "rec-77" {
		t.Errorf("record id: got %q, want %q", id, "rec-77")
	}
	if gotPath != "/api/history" {
		t.Errorf("path: got %q", gotPath)
	}
	if gotBody.Topic != "weekend trips" || gotBody.TaskID != "task-1" {
		t.Errorf("request body: %+v", gotBody)
	}
	if len(gotBody.Outline.Pages) != 2 {
		t.Errorf("outline pages: got %d, want 2", len(gotBody.Outline.Pages))
	}
}

func TestCreateHistory_BackendFailure(t *testing.T) {
	client, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(createResponse{Success: false, Error: "quota exceeded"})
	}))
	defer srv.Close()

	_, err := client.CreateHistory(context.Background(), "t", outline.Outline{}, "", nil)
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if !errors.Is(err, ErrNotSuccessful) {
		t.Errorf("error should wrap ErrNotSuccessful: %v", err)
	}
}

func TestCreateHistory_MissingRecordID(t *testing.T) {
	client, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(createResponse{Success: true})
	}))
	defer srv.Close()

	_, err := client.CreateHistory(context.Background(), "t", outline.Outline{}, "", nil)
	if !errors.Is(err, ErrNotSuccessful) {
		t.Errorf("expected ErrNotSuccessful, got %v", err)
	}
}

func TestUpdateHistory_RoutesByRecordID(t *testing.T) {
	var gotPath string
	client, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		json.NewEncoder(w).Encode(statusResponse{Success: true})
	}))
	defer srv.Close()

	o := outline.Parse("A")
	if err := client.UpdateHistory(context.Background(), "rec-5", o, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotPath != "/api/history/rec-5" {
		t.Errorf("path: got %q", gotPath)
	}
}

func TestGenerateContent_Success(t *testing.T) {
	client, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req generateContentRequest
		json.NewDecoder(r.Body).Decode(&req)
		if req.Topic != "coffee" || req.Outline == "" {
			t.Errorf("request: %+v", req)
		}
		json.NewEncoder(w).Encode(generateContentResponse{
			Success:     true,
			Titles:      []string{"Five brews"},
			Copywriting: "A post about coffee.",
			Tags:        []string{"coffee", "morning"},
		})
	}))
	defer srv.Close()

	content, err := client.GenerateContent(context.Background(), "coffee", "page one")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(content.Titles) != 1 || content.Copywriting == "" || len(content.Tags) != 2 {
		t.Errorf("content: %+v", content)
	}
}

func TestGenerateOutline_Success(t *testing.T) {
	client, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(generateOutlineResponse{Success: true, Outline: "A" + outline.PageSeparator + "B"})
	}))
	defer srv.Close()

	raw, err := client.GenerateOutline(context.Background(), "coffee")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if raw != "A"+outline.PageSeparator+"B" {
		t.Errorf("raw: got %q", raw)
	}
}

func TestPost_Non2xxStatus(t *testing.T) {
	client, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := client.GenerateOutline(context.Background(), "coffee")
	if err == nil {
		t.Fatal("expected error, got nil")
	}
}

func TestPost_ContextCancelled(t *testing.T) {
	client, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.GenerateOutline(ctx, "coffee")
	if err == nil {
		t.Fatal("expected error, got nil")
	}
}
