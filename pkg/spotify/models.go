package spotify

import "time"

// Image is one rendition of an album or playlist cover. Spotify returns
// renditions largest-first.
type Image struct {
	URL    string `json:"url"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// Artist is a track or album artist.
type Artist struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Album carries the fields the app uses; the API returns more.
type Album struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	ReleaseDate string  `json:"release_date"`
	Images      []Image `json:"images"`
}

// Track is a playable track with its album and artists.
type Track struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	Album   Album    `json:"album"`
	Artists []Artist `json:"artists"`
}

// ArtistNames joins all artist names with ", ".
func (t Track) ArtistNames() string {
	names := ""
	for i, a := range t.Artists {
		if i > 0 {
			names += ", "
		}
		names += a.Name
	}
	return names
}

// CoverURL returns the largest album image URL, or "" when the album has
// no images.
func (t Track) CoverURL() string {
	if len(t.Album.Images) == 0 {
		return ""
	}
	return t.Album.Images[0].URL
}

// PlayedTrack is one entry of the recently-played feed.
type PlayedTrack struct {
	Track    Track     `json:"track"`
	PlayedAt time.Time `json:"played_at"`
}

// Playlist is a playlist header without its tracks.
type Playlist struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	URI    string  `json:"uri"`
	Images []Image `json:"images"`
	Tracks struct {
		Total int `json:"total"`
	} `json:"tracks"`
}

// Paging wrappers for the API's envelope responses.

type recentlyPlayedPage struct {
	Items []PlayedTrack `json:"items"`
	Next  string        `json:"next"`
}

type topTracksPage struct {
	Items []Track `json:"items"`
	Total int     `json:"total"`
}

type playlistsPage struct {
	Items []Playlist `json:"items"`
	Next  string     `json:"next"`
	Total int        `json:"total"`
}

type playlistItemsPage struct {
	Items []struct {
		Track *Track `json:"track"`
	} `json:"items"`
	Next string `json:"next"`
}

type searchResponse struct {
	Tracks struct {
		Items []Track `json:"items"`
	} `json:"tracks"`
	Playlists struct {
		Items []Playlist `json:"items"`
	} `json:"playlists"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

type apiError struct {
	Error struct {
		Status  int    `json:"status"`
		Message string `json:"message"`
	} `json:"error"`
}
