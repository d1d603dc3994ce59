package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/streamlytics/streamlytics/pkg/history"
)

// statsCommand creates the listening statistics command group.
func (c *CLI) statsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show listening statistics from the history store",
	}
	cmd.AddCommand(c.statsArtistsCommand())
	cmd.AddCommand(c.statsTracksCommand())
	cmd.AddCommand(c.statsClockCommand())
	return cmd
}

func (c *CLI) statsArtistsCommand() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "artists",
		Short: "Show your most played artists",
		RunE: func(cmd *cobra.Command, args []string) error {
			records, err := c.loadHistory(cmd)
			if err != nil {
				return err
			}
			printHeader("Top artists")
			for i, count := range history.TopArtists(records, limit) {
				printRanked(i+1, count.Name, count.Plays)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "number of artists to show")
	return cmd
}

func (c *CLI) statsTracksCommand() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "tracks",
		Short: "Show your most played tracks",
		RunE: func(cmd *cobra.Command, args []string) error {
			records, err := c.loadHistory(cmd)
			if err != nil {
				return err
			}
			printHeader("Top tracks")
			for i, count := range history.TopTracks(records, limit) {
				printRanked(i+1, count.Name, count.Plays)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "number of tracks to show")
	return cmd
}

// statsClockCommand charts plays per hour of day as a horizontal bar chart.
func (c *CLI) statsClockCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clock",
		Short: "Show plays by hour of day",
		RunE: func(cmd *cobra.Command, args []string) error {
			records, err := c.loadHistory(cmd)
			if err != nil {
				return err
			}

			clock := history.ListeningClock(records)
			max := 0
			for _, n := range clock {
				if n > max {
					max = n
				}
			}
			if max == 0 {
				printInfo("History store is empty")
				return nil
			}

			printHeader("Listening clock")
			const barWidth = 40
			for hour, n := range clock {
				bar := strings.Repeat("█", n*barWidth/max)
				printDetail("%02d:00 %s %d", hour, StyleNumber.Render(bar), n)
			}
			return nil
		},
	}
	return cmd
}

// loadHistory opens the configured store and reads all records.
func (c *CLI) loadHistory(cmd *cobra.Command) ([]history.Record, error) {
	ctx := cmd.Context()

	cfg, err := c.loadConfig()
	if err != nil {
		return nil, err
	}
	store, err := c.newHistoryStore(ctx, cfg)
	if err != nil {
		return nil, err
	}
	defer store.Close()

	records, err := store.List(ctx)
	if err != nil {
		return nil, err
	}
	return records, nil
}

// printHeader prints a styled section title.
func printHeader(title string) {
	fmt.Println(StyleTitle.Render(title))
}
