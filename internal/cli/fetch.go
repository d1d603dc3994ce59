package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/streamlytics/streamlytics/pkg/spotify"
)

// Cover art sources for the fetch command.
const (
	sourceRecent   = "recent"
	sourceTop      = "top"
	sourcePlaylist = "playlist"
)

// fetchCommand creates the cover art download command.
func (c *CLI) fetchCommand() *cobra.Command {
	var (
		source    string
		dir       string
		limit     int
		timeRange string
		playlist  string
		noCache   bool
	)

	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Download album cover art from Spotify",
		Long: `Download album cover art into a folder, one JPEG per unique album.

Sources:
  recent     your recently played tracks (requires a user token)
  top        your top tracks (requires a user token)
  playlist   tracks from a playlist, or every "Your Top Songs" playlist`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)

			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			client, err := c.newSpotifyClient(ctx, cfg, noCache)
			if err != nil {
				return err
			}

			var tracks []spotify.Track
			switch source {
			case sourceRecent:
				played, err := client.RecentlyPlayed(ctx, limit)
				if err != nil {
					return err
				}
				for _, p := range played {
					tracks = append(tracks, p.Track)
				}
			case sourceTop:
				tracks, err = client.TopTracks(ctx, timeRange, limit)
				if err != nil {
					return err
				}
			case sourcePlaylist:
				tracks, err = playlistTracks(cmd, client, playlist)
				if err != nil {
					return err
				}
			default:
				return fmt.Errorf("unknown source: %s (must be 'recent', 'top', or 'playlist')", source)
			}

			if dir == "" {
				dir = filepath.Join(cfg.Poster.OutputDir, "covers")
			}

			logger.Infof("Downloading cover art for %d tracks", len(tracks))
			spin := newSpinnerWithContext(ctx, "Downloading cover art...")
			spin.Start()
			res, err := client.DownloadCoverArt(ctx, tracks, dir)
			if err != nil {
				spin.StopWithError("Download failed")
				return err
			}
			spin.StopWithSuccess(fmt.Sprintf("Downloaded %d covers", len(res.Saved)))

			if res.Skipped > 0 {
				printWarning("Skipped %d tracks (no artwork or download failure)", res.Skipped)
			}
			printFile(dir)
			return nil
		},
	}

	cmd.Flags().StringVarP(&source, "source", "s", sourceRecent, "track source: recent, top, playlist")
	cmd.Flags().StringVarP(&dir, "dir", "d", "", "target folder (default <output_dir>/covers)")
	cmd.Flags().IntVarP(&limit, "limit", "n", 50, "number of tracks to fetch (recent and top)")
	cmd.Flags().StringVar(&timeRange, "time-range", spotify.RangeMedium, "top tracks window: short_term, medium_term, long_term")
	cmd.Flags().StringVarP(&playlist, "playlist", "p", "", "playlist ID (default is every \"Your Top Songs\" playlist)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "bypass the response cache")

	return cmd
}

// playlistTracks collects tracks from a single playlist, or from every
// "Your Top Songs" playlist when no ID is given.
func playlistTracks(cmd *cobra.Command, client *spotify.Client, playlistID string) ([]spotify.Track, error) {
	ctx := cmd.Context()
	if playlistID != "" {
		return client.PlaylistTracks(ctx, playlistID)
	}

	lists, err := client.TopSongsPlaylists(ctx)
	if err != nil {
		return nil, err
	}
	logger := loggerFromContext(ctx)

	var tracks []spotify.Track
	for _, pl := range lists {
		logger.Debugf("Collecting playlist %q (%d tracks)", pl.Name, pl.Tracks.Total)
		items, err := client.PlaylistTracks(ctx, pl.ID)
		if err != nil {
			return nil, err
		}
		tracks = append(tracks, items...)
	}
	return tracks, nil
}
