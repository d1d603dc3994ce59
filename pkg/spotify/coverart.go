package spotify

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/streamlytics/streamlytics/pkg/errors"
)

// downloadConcurrency bounds parallel cover downloads.
const downloadConcurrency = 8

// DownloadResult summarizes a cover-art download batch.
type DownloadResult struct {
	Saved   []string // paths written
	Skipped int      // tracks without images or whose download failed
}

// DownloadCoverArt saves the largest album image of each track into dir
// as "Artist - Album.jpg". Albums appearing on several tracks are
// downloaded once. Individual failures are logged and counted, never
// fatal: a poster from 49 of 50 covers beats no poster. Cancellation of
// ctx stops the batch.
func (c *Client) DownloadCoverArt(ctx context.Context, tracks []Track, dir string) (DownloadResult, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return DownloadResult{}, errors.Wrap(errors.ErrCodeIO, err, "create cover art directory %s", dir)
	}

	type job struct {
		url  string
		path string
	}
	var jobs []job
	seen := map[string]bool{}
	skipped := 0
	for _, t := range tracks {
		url := t.CoverURL()
		if url == "" {
			c.logger.Warnf("No album images for %q by %s", t.Name, t.ArtistNames())
			skipped++
			continue
		}
		name := SanitizeFilename(t.ArtistNames()+" - "+t.Album.Name) + ".jpg"
		if seen[name] {
			continue
		}
		seen[name] = true
		jobs = append(jobs, job{url: url, path: filepath.Join(dir, name)})
	}

	var (
		mu     sync.Mutex
		result = DownloadResult{Skipped: skipped}
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(downloadConcurrency)
	for _, j := range jobs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			if err := c.downloadImage(gctx, j.url, j.path); err != nil {
				c.logger.Warnf("Skipping %s: %v", filepath.Base(j.path), err)
				mu.Lock()
				result.Skipped++
				mu.Unlock()
				return nil
			}
			mu.Lock()
			result.Saved = append(result.Saved, j.path)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return result, err
	}
	return result, nil
}

// downloadImage fetches one image URL to path.
func (c *Client) downloadImage(ctx context.Context, url, path string) error {
	resp, err := c.http.R().SetContext(ctx).Get(url)
	if err != nil {
		return errors.Wrap(errors.ErrCodeNetwork, err, "download %s", url)
	}
	if resp.StatusCode() != 200 {
		return errors.New(errors.ErrCodeNetwork, "download %s: status %d", url, resp.StatusCode())
	}
	if err := os.WriteFile(path, resp.Body(), 0644); err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "write %s", path)
	}
	return nil
}

// SanitizeFilename replaces characters that are unsafe in filenames.
func SanitizeFilename(name string) string {
	r := strings.NewReplacer(
		"/", "-",
		"\\", "-",
		":", "-",
		"*", "-",
		"?", "",
		"\"", "'",
		"<", "(",
		">", ")",
		"|", "-",
	)
	return strings.TrimSpace(r.Replace(name))
}
