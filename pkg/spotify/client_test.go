package spotify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/streamlytics/streamlytics/pkg/cache"
	"github.com/streamlytics/streamlytics/pkg/errors"
)

// newAuthServer serves the client-credentials token endpoint and counts
// token requests.
func newAuthServer(t *testing.T, tokens *atomic.Int32) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method", http.StatusMethodNotAllowed)
			return
		}
		if user, pass, ok := r.BasicAuth(); !ok || user != "id" || pass != "secret" {
			http.Error(w, "bad credentials", http.StatusUnauthorized)
			return
		}
		if tokens != nil {
			tokens.Add(1)
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"access_token": "app-token",
			"token_type":   "Bearer",
			"expires_in":   3600,
		})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newTestClient(t *testing.T, api http.Handler, opts ...Option) *Client {
	t.Helper()
	apiSrv := httptest.NewServer(api)
	t.Cleanup(apiSrv.Close)
	authSrv := newAuthServer(t, nil)
	opts = append([]Option{WithBaseURL(apiSrv.URL), WithAuthURL(authSrv.URL)}, opts...)
	return New("id", "secret", opts...)
}

func TestSearchTracksUsesAppToken(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/search" {
			http.NotFound(w, r)
			return
		}
		if got := r.Header.Get("Authorization"); got != "Bearer app-token" {
			t.Errorf("Authorization = %q", got)
		}
		if q := r.URL.Query().Get("q"); q != "daft punk" {
			t.Errorf("q = %q", q)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"tracks": map[string]any{
				"items": []map[string]any{
					{"id": "t1", "name": "One More Time", "album": map[string]any{"name": "Discovery"}},
				},
			},
		})
	})

	c := newTestClient(t, handler)
	tracks, err := c.SearchTracks(context.Background(), "daft punk", 10)
	if err != nil {
		t.Fatalf("SearchTracks: %v", err)
	}
	if len(tracks) != 1 || tracks[0].Name != "One More Time" {
		t.Errorf("tracks = %+v", tracks)
	}
}

func TestAppTokenReused(t *testing.T) {
	var tokens atomic.Int32
	authSrv := newAuthServer(t, &tokens)

	apiSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(searchResponse{})
	}))
	t.Cleanup(apiSrv.Close)

	c := New("id", "secret", WithBaseURL(apiSrv.URL), WithAuthURL(authSrv.URL))
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		if _, err := c.SearchTracks(ctx, "q", 1); err != nil {
			t.Fatal(err)
		}
	}
	if got := tokens.Load(); got != 1 {
		t.Errorf("token endpoint hit %d times, want 1", got)
	}
}

func TestUserEndpointNeedsUserToken(t *testing.T) {
	c := newTestClient(t, http.NotFoundHandler())
	_, err := c.RecentlyPlayed(context.Background(), 10)
	if !errors.Is(err, errors.ErrCodeUnauthorized) {
		t.Fatalf("error = %v, want UNAUTHORIZED", err)
	}
}

func TestRecentlyPlayedRecords(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/me/player/recently-played" {
			http.NotFound(w, r)
			return
		}
		if got := r.Header.Get("Authorization"); got != "Bearer user-token" {
			t.Errorf("Authorization = %q", got)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"items": []map[string]any{
				{
					"played_at": "2026-08-01T09:15:00Z",
					"track": map[string]any{
						"id":   "t1",
						"name": "Song",
						"album": map[string]any{
							"name": "Album",
						},
						"artists": []map[string]any{{"name": "A"}, {"name": "B"}},
					},
				},
			},
		})
	})

	c := newTestClient(t, handler, WithUserToken("user-token"))
	records, err := c.RecentlyPlayedRecords(context.Background(), 10)
	if err != nil {
		t.Fatalf("RecentlyPlayedRecords: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("got %d records", len(records))
	}
	r := records[0]
	if r.TrackID != "t1" || r.Track != "Song" || r.Artist != "A, B" || r.Album != "Album" {
		t.Errorf("record = %+v", r)
	}
	if r.PlayedAt.Hour() != 9 {
		t.Errorf("played at = %v", r.PlayedAt)
	}
}

func TestPlaylistsPagination(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		page := playlistsPage{Total: 2}
		if r.URL.Query().Get("offset") == "0" {
			page.Items = []Playlist{{ID: "p1", Name: "Your Top Songs 2025"}}
			page.Next = "next-page"
		} else {
			page.Items = []Playlist{{ID: "p2", Name: "Road Trip"}}
		}
		json.NewEncoder(w).Encode(page)
	})

	c := newTestClient(t, handler, WithUserToken("user-token"))
	playlists, err := c.Playlists(context.Background())
	if err != nil {
		t.Fatalf("Playlists: %v", err)
	}
	if len(playlists) != 2 {
		t.Fatalf("got %d playlists, want 2", len(playlists))
	}

	top, err := c.TopSongsPlaylists(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(top) != 1 || top[0].ID != "p1" {
		t.Errorf("top songs playlists = %+v", top)
	}
}

func TestStatusErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		header map[string]string
		code   errors.Code
	}{
		{"unauthorized", http.StatusUnauthorized, nil, errors.ErrCodeUnauthorized},
		{"not found", http.StatusNotFound, nil, errors.ErrCodeNotFound},
		{"rate limited", http.StatusTooManyRequests, map[string]string{"Retry-After": "7"}, errors.ErrCodeRateLimited},
		{"server error", http.StatusInternalServerError, nil, errors.ErrCodeNetwork},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				for k, v := range tt.header {
					w.Header().Set(k, v)
				}
				w.WriteHeader(tt.status)
				json.NewEncoder(w).Encode(map[string]any{
					"error": map[string]any{"status": tt.status, "message": "nope"},
				})
			})
			c := newTestClient(t, handler, WithUserToken("user-token"))
			_, err := c.RecentlyPlayed(context.Background(), 1)
			if !errors.Is(err, tt.code) {
				t.Fatalf("error = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestRateLimitRetryAfter(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "13")
		w.WriteHeader(http.StatusTooManyRequests)
	})
	c := newTestClient(t, handler, WithUserToken("user-token"))
	_, err := c.RecentlyPlayed(context.Background(), 1)

	var rl *errors.RateLimitedError
	if !errors.As(err, &rl) {
		t.Fatalf("error %v does not wrap RateLimitedError", err)
	}
	if rl.RetryAfter != 13 {
		t.Errorf("RetryAfter = %d, want 13", rl.RetryAfter)
	}
}

func TestResponseCaching(t *testing.T) {
	var hits atomic.Int32
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		json.NewEncoder(w).Encode(searchResponse{})
	})

	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	c := newTestClient(t, handler, WithCache(fc))

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		if _, err := c.SearchTracks(ctx, "cached query", 5); err != nil {
			t.Fatal(err)
		}
	}
	if got := hits.Load(); got != 1 {
		t.Errorf("API hit %d times, want 1 (cache should serve repeats)", got)
	}
}

func TestCacheTTLOption(t *testing.T) {
	var hits atomic.Int32
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		json.NewEncoder(w).Encode(searchResponse{})
	})

	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	// A negative TTL writes entries that are already expired, so every
	// request must reach the API.
	c := newTestClient(t, handler, WithCache(fc), WithCacheTTL(-time.Hour))

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		if _, err := c.SearchTracks(ctx, "uncachable query", 5); err != nil {
			t.Fatal(err)
		}
	}
	if got := hits.Load(); got != 3 {
		t.Errorf("API hit %d times, want 3 (expired entries must not serve)", got)
	}
}

func TestBestMatchByYear(t *testing.T) {
	tracks := []Track{
		{ID: "a", Album: Album{ReleaseDate: "2015-06-30"}},
		{ID: "b", Album: Album{ReleaseDate: "1998-01-24"}},
		{ID: "c", Album: Album{ReleaseDate: "garbage"}},
	}

	got, ok := BestMatchByYear(tracks, 1998)
	if !ok || got.ID != "b" {
		t.Errorf("best match = %+v, want b", got)
	}

	got, ok = BestMatchByYear(tracks, 2016)
	if !ok || got.ID != "a" {
		t.Errorf("best match = %+v, want a", got)
	}

	if _, ok := BestMatchByYear(nil, 2000); ok {
		t.Error("empty input should report no match")
	}
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"AC/DC - Back in Black", "AC-DC - Back in Black"},
		{"What? - <Album>", "What - (Album)"},
		{"Plain Name", "Plain Name"},
	}
	for _, tt := range tests {
		if got := SanitizeFilename(tt.in); got != tt.want {
			t.Errorf("SanitizeFilename(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
