package spotify

import (
	"context"
	"strconv"
	"strings"

	"github.com/streamlytics/streamlytics/pkg/history"
)

// Time ranges accepted by TopTracks.
const (
	RangeShort  = "short_term"  // ~4 weeks
	RangeMedium = "medium_term" // ~6 months
	RangeLong   = "long_term"   // several years
)

const maxPageLimit = 50

// topSongsPrefix matches the yearly playlists Spotify generates for each
// user ("Your Top Songs 2025").
const topSongsPrefix = "Your Top Songs "

// RecentlyPlayed returns the user's recently played tracks, newest first.
// limit is clamped to the API maximum of 50.
func (c *Client) RecentlyPlayed(ctx context.Context, limit int) ([]PlayedTrack, error) {
	var page recentlyPlayedPage
	err := c.get(ctx, "/me/player/recently-played", map[string]string{
		"limit": strconv.Itoa(clampLimit(limit)),
	}, true, &page)
	if err != nil {
		return nil, err
	}
	return page.Items, nil
}

// RecentlyPlayedRecords fetches recently played tracks and converts them
// to history records for the store.
func (c *Client) RecentlyPlayedRecords(ctx context.Context, limit int) ([]history.Record, error) {
	items, err := c.RecentlyPlayed(ctx, limit)
	if err != nil {
		return nil, err
	}
	records := make([]history.Record, len(items))
	for i, item := range items {
		records[i] = history.Record{
			TrackID:  item.Track.ID,
			Track:    item.Track.Name,
			Artist:   item.Track.ArtistNames(),
			Album:    item.Track.Album.Name,
			PlayedAt: item.PlayedAt,
		}
	}
	return records, nil
}

// TopTracks returns the user's top tracks for the given time range.
func (c *Client) TopTracks(ctx context.Context, timeRange string, limit int) ([]Track, error) {
	if timeRange == "" {
		timeRange = RangeMedium
	}
	var page topTracksPage
	err := c.get(ctx, "/me/top/tracks", map[string]string{
		"time_range": timeRange,
		"limit":      strconv.Itoa(clampLimit(limit)),
	}, true, &page)
	if err != nil {
		return nil, err
	}
	return page.Items, nil
}

// Playlists returns the current user's playlists, following pagination
// until the API reports no next page.
func (c *Client) Playlists(ctx context.Context) ([]Playlist, error) {
	var all []Playlist
	offset := 0
	for {
		var page playlistsPage
		err := c.get(ctx, "/me/playlists", map[string]string{
			"limit":  strconv.Itoa(maxPageLimit),
			"offset": strconv.Itoa(offset),
		}, true, &page)
		if err != nil {
			return nil, err
		}
		all = append(all, page.Items...)
		if page.Next == "" || len(page.Items) == 0 {
			return all, nil
		}
		offset += len(page.Items)
	}
}

// TopSongsPlaylists returns the user's "Your Top Songs <year>" playlists.
func (c *Client) TopSongsPlaylists(ctx context.Context) ([]Playlist, error) {
	playlists, err := c.Playlists(ctx)
	if err != nil {
		return nil, err
	}
	var matching []Playlist
	for _, p := range playlists {
		if strings.HasPrefix(p.Name, topSongsPrefix) {
			matching = append(matching, p)
		}
	}
	return matching, nil
}

// PlaylistTracks returns all tracks of a playlist, following pagination.
// Entries without a track (removed episodes, local files) are skipped.
func (c *Client) PlaylistTracks(ctx context.Context, playlistID string) ([]Track, error) {
	var all []Track
	offset := 0
	for {
		var page playlistItemsPage
		err := c.get(ctx, "/playlists/"+playlistID+"/tracks", map[string]string{
			"limit":            strconv.Itoa(maxPageLimit),
			"offset":           strconv.Itoa(offset),
			"additional_types": "track",
		}, true, &page)
		if err != nil {
			return nil, err
		}
		for _, item := range page.Items {
			if item.Track != nil {
				all = append(all, *item.Track)
			}
		}
		if page.Next == "" || len(page.Items) == 0 {
			return all, nil
		}
		offset += len(page.Items)
	}
}

// SearchTracks searches the catalog for tracks matching the query. This
// uses app credentials, no user token required.
func (c *Client) SearchTracks(ctx context.Context, query string, limit int) ([]Track, error) {
	var result searchResponse
	err := c.get(ctx, "/search", map[string]string{
		"q":     query,
		"type":  "track",
		"limit": strconv.Itoa(clampLimit(limit)),
	}, false, &result)
	if err != nil {
		return nil, err
	}
	return result.Tracks.Items, nil
}

// BestMatchByYear picks the track whose album release year is closest to
// year. Tracks with unparsable release dates rank last; an empty input
// returns the zero Track and false.
func BestMatchByYear(tracks []Track, year int) (Track, bool) {
	if len(tracks) == 0 {
		return Track{}, false
	}
	best := tracks[0]
	bestDiff := yearDiff(tracks[0], year)
	for _, t := range tracks[1:] {
		if d := yearDiff(t, year); d < bestDiff {
			best, bestDiff = t, d
		}
	}
	return best, true
}

func yearDiff(t Track, year int) int {
	parts := strings.SplitN(t.Album.ReleaseDate, "-", 2)
	parsed, err := strconv.Atoi(parts[0])
	if err != nil {
		return 1 << 30
	}
	if parsed > year {
		return parsed - year
	}
	return year - parsed
}

func clampLimit(limit int) int {
	if limit <= 0 || limit > maxPageLimit {
		return maxPageLimit
	}
	return limit
}
