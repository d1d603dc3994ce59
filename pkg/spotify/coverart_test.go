package spotify

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

func TestDownloadCoverArt(t *testing.T) {
	imgSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/broken" {
			http.Error(w, "gone", http.StatusNotFound)
			return
		}
		w.Write([]byte("jpeg-bytes"))
	}))
	t.Cleanup(imgSrv.Close)

	track := func(artist, album, imgPath string) Track {
		tr := Track{
			Name:    "Song",
			Album:   Album{Name: album},
			Artists: []Artist{{Name: artist}},
		}
		if imgPath != "" {
			tr.Album.Images = []Image{{URL: imgSrv.URL + imgPath, Width: 640, Height: 640}}
		}
		return tr
	}

	tracks := []Track{
		track("Daft Punk", "Discovery", "/discovery.jpg"),
		track("Daft Punk", "Discovery", "/discovery.jpg"), // same album again
		track("AC/DC", "Back in Black", "/bib.jpg"),
		track("No Art", "Empty", ""),        // no images
		track("Flaky", "Server", "/broken"), // download fails
	}

	dir := t.TempDir()
	c := New("id", "secret")
	result, err := c.DownloadCoverArt(context.Background(), tracks, dir)
	if err != nil {
		t.Fatalf("DownloadCoverArt: %v", err)
	}

	if len(result.Saved) != 2 {
		t.Errorf("saved %d covers, want 2: %v", len(result.Saved), result.Saved)
	}
	if result.Skipped != 2 {
		t.Errorf("skipped = %d, want 2 (missing art + failed download)", result.Skipped)
	}

	// The slash in the artist name is sanitized out of the filename.
	want := filepath.Join(dir, "AC-DC - Back in Black.jpg")
	data, err := os.ReadFile(want)
	if err != nil {
		t.Fatalf("expected cover file: %v", err)
	}
	if string(data) != "jpeg-bytes" {
		t.Errorf("cover content = %q", data)
	}
	if _, err := os.Stat(filepath.Join(dir, "Daft Punk - Discovery.jpg")); err != nil {
		t.Errorf("expected deduped cover file: %v", err)
	}
}
