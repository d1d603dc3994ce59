package server

import (
	"bytes"
	"context"
	"encoding/json"
	"image/color"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/disintegration/imaging"

	"github.com/streamlytics/streamlytics/pkg/history"
)

func newTestServer(t *testing.T, records []history.Record) (*Server, string) {
	t.Helper()
	store, err := history.NewFileStore(filepath.Join(t.TempDir(), "history.jsonl"))
	if err != nil {
		t.Fatal(err)
	}
	if len(records) > 0 {
		if err := store.Append(context.Background(), records); err != nil {
			t.Fatal(err)
		}
	}
	outputDir := t.TempDir()
	return New(store, outputDir, nil), outputDir
}

func doJSON(t *testing.T, h http.Handler, method, path string, body any, out any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if out != nil && rec.Code < 300 {
		if err := json.Unmarshal(rec.Body.Bytes(), out); err != nil {
			t.Fatalf("decode response %q: %v", rec.Body.String(), err)
		}
	}
	return rec
}

func TestHealth(t *testing.T) {
	s, _ := newTestServer(t, nil)
	var got map[string]string
	rec := doJSON(t, s.Handler(), http.MethodGet, "/healthz", nil, &got)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if got["status"] != "ok" {
		t.Errorf("body = %v", got)
	}
}

func TestTopArtists(t *testing.T) {
	base := time.Date(2026, 8, 1, 20, 0, 0, 0, time.UTC)
	records := []history.Record{
		{TrackID: "t1", Track: "One", Artist: "A", PlayedAt: base},
		{TrackID: "t2", Track: "Two", Artist: "A", PlayedAt: base.Add(time.Minute)},
		{TrackID: "t3", Track: "Three", Artist: "B", PlayedAt: base.Add(2 * time.Minute)},
	}
	s, _ := newTestServer(t, records)

	var got []history.Count
	rec := doJSON(t, s.Handler(), http.MethodGet, "/api/stats/top-artists?limit=1", nil, &got)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	if len(got) != 1 || got[0].Name != "A" || got[0].Plays != 2 {
		t.Errorf("top artists = %v", got)
	}
}

func TestTopArtistsEmptyStore(t *testing.T) {
	s, _ := newTestServer(t, nil)
	rec := doJSON(t, s.Handler(), http.MethodGet, "/api/stats/top-artists", nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	// Empty list, not null.
	if body := rec.Body.String(); body != "[]\n" {
		t.Errorf("body = %q, want empty JSON array", body)
	}
}

func TestListeningClock(t *testing.T) {
	records := []history.Record{
		{TrackID: "t1", Track: "One", Artist: "A", PlayedAt: time.Date(2026, 8, 1, 22, 0, 0, 0, time.UTC)},
	}
	s, _ := newTestServer(t, records)

	var clock []int
	rec := doJSON(t, s.Handler(), http.MethodGet, "/api/stats/listening-clock", nil, &clock)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if len(clock) != 24 || clock[22] != 1 {
		t.Errorf("clock = %v", clock)
	}
}

func TestCreatePoster(t *testing.T) {
	folder := t.TempDir()
	for _, name := range []string{"a.jpg", "b.jpg", "c.jpg", "d.jpg"} {
		img := imaging.New(60, 60, color.NRGBA{R: 255, A: 255})
		if err := imaging.Save(img, filepath.Join(folder, name)); err != nil {
			t.Fatal(err)
		}
	}
	s, outputDir := newTestServer(t, nil)

	var got posterResponse
	rec := doJSON(t, s.Handler(), http.MethodPost, "/api/posters", posterRequest{
		Mode:   "collage",
		Folder: folder,
	}, &got)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	if got.File == "" || got.URL == "" {
		t.Fatalf("response = %+v", got)
	}
	if _, err := os.Stat(filepath.Join(outputDir, got.File)); err != nil {
		t.Errorf("poster file missing: %v", err)
	}

	// The generated poster is reachable through the static route.
	req := httptest.NewRequest(http.MethodGet, got.URL, nil)
	fileRec := httptest.NewRecorder()
	s.Handler().ServeHTTP(fileRec, req)
	if fileRec.Code != http.StatusOK {
		t.Errorf("GET %s = %d", got.URL, fileRec.Code)
	}
}

func TestCreatePosterErrors(t *testing.T) {
	s, _ := newTestServer(t, nil)

	tests := []struct {
		name   string
		req    posterRequest
		status int
	}{
		{"missing folder", posterRequest{Mode: "grid"}, http.StatusBadRequest},
		{"unknown mode", posterRequest{Mode: "mosaic", Folder: t.TempDir()}, http.StatusBadRequest},
		{"empty folder", posterRequest{Mode: "grid", Folder: t.TempDir()}, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doJSON(t, s.Handler(), http.MethodPost, "/api/posters", tt.req, nil)
			if rec.Code != tt.status {
				t.Errorf("status = %d, want %d: %s", rec.Code, tt.status, rec.Body.String())
			}
			var errResp errorResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &errResp); err != nil {
				t.Fatalf("error body %q: %v", rec.Body.String(), err)
			}
			if errResp.Code == "" {
				t.Error("error response has no code")
			}
		})
	}
}
