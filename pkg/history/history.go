// Package history records listening history and computes analytics over it.
//
// A Record is one playback event. Records are persisted through the Store
// interface; the file backend appends JSON lines to a single file, the
// Mongo backend writes to a collection. Aggregations (TopArtists,
// TopTracks, ListeningClock) are pure functions over a record slice so
// they work identically against either backend.
package history

import (
	"context"
	"sort"
	"time"
)

// Record is one playback event.
type Record struct {
	TrackID  string    `json:"track_id" bson:"track_id"`
	Track    string    `json:"track" bson:"track"`
	Artist   string    `json:"artist" bson:"artist"`
	Album    string    `json:"album" bson:"album"`
	PlayedAt time.Time `json:"played_at" bson:"played_at"`
}

// Store persists playback records.
type Store interface {
	// Append adds records to the store. Records already present (same
	// track and timestamp) may be stored again; List deduplicates.
	Append(ctx context.Context, records []Record) error

	// List returns all records sorted by PlayedAt ascending, with
	// duplicates from overlapping fetches removed.
	List(ctx context.Context) ([]Record, error)

	Close() error
}

// Count is one entry of a ranked aggregation.
type Count struct {
	Name  string `json:"name"`
	Plays int    `json:"plays"`
}

// Dedup removes records sharing a (TrackID, PlayedAt) pair, keeping the
// first occurrence. Overlapping recently-played fetches produce exact
// duplicates, never near-duplicates, so the pair match suffices.
func Dedup(records []Record) []Record {
	type key struct {
		id string
		at time.Time
	}
	seen := make(map[key]bool, len(records))
	out := records[:0:0]
	for _, r := range records {
		k := key{id: r.TrackID, at: r.PlayedAt}
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, r)
	}
	return out
}

// TopArtists ranks artists by play count, descending. Ties break
// alphabetically so the ranking is stable. limit <= 0 returns all.
func TopArtists(records []Record, limit int) []Count {
	return rank(records, limit, func(r Record) string { return r.Artist })
}

// TopTracks ranks tracks by play count, descending, labeled
// "Artist - Track".
func TopTracks(records []Record, limit int) []Count {
	return rank(records, limit, func(r Record) string {
		if r.Artist == "" {
			return r.Track
		}
		return r.Artist + " - " + r.Track
	})
}

func rank(records []Record, limit int, keyOf func(Record) string) []Count {
	counts := map[string]int{}
	for _, r := range records {
		if k := keyOf(r); k != "" {
			counts[k]++
		}
	}

	out := make([]Count, 0, len(counts))
	for name, plays := range counts {
		out = append(out, Count{Name: name, Plays: plays})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Plays != out[j].Plays {
			return out[i].Plays > out[j].Plays
		}
		return out[i].Name < out[j].Name
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// ListeningClock returns play counts per hour of day (local time of each
// record's timestamp), index 0 through 23.
func ListeningClock(records []Record) [24]int {
	var clock [24]int
	for _, r := range records {
		clock[r.PlayedAt.Hour()]++
	}
	return clock
}
