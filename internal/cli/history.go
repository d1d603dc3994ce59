package cli

import (
	"github.com/spf13/cobra"
)

// historyCommand creates the listening history command group.
func (c *CLI) historyCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Manage your listening history",
	}
	cmd.AddCommand(c.historySyncCommand())
	cmd.AddCommand(c.historyShowCommand())
	return cmd
}

// historySyncCommand appends the latest recently played tracks to the store.
func (c *CLI) historySyncCommand() *cobra.Command {
	var (
		limit   int
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Append recently played tracks to the history store",
		Long: `Fetch your recently played tracks from Spotify and append them to the
history store. Replays of the same track at the same time are dropped on
read, so running sync repeatedly is safe.`,
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
			store, err := c.newHistoryStore(ctx, cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			logger.Debugf("Fetching up to %d recent plays", limit)
			spin := newSpinner("Fetching recently played tracks...")
			spin.Start()
			records, err := client.RecentlyPlayedRecords(ctx, limit)
			spin.Stop()
			if err != nil {
				return err
			}
			if len(records) == 0 {
				printInfo("No recently played tracks to sync")
				return nil
			}
			if err := store.Append(ctx, records); err != nil {
				return err
			}
			printSuccess("Synced %d plays", len(records))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 50, "number of recent plays to fetch")
	cmd.Flags().BoolVar(&noCache, "no-cache", true, "bypass the response cache")

	return cmd
}

// historyShowCommand prints the stored history, newest first.
func (c *CLI) historyShowCommand() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the stored listening history",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			store, err := c.newHistoryStore(ctx, cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			records, err := store.List(ctx)
			if err != nil {
				return err
			}
			if len(records) == 0 {
				printInfo("History store is empty")
				return nil
			}

			// List returns oldest first, walk backwards.
			shown := 0
			for i := len(records) - 1; i >= 0 && shown < limit; i-- {
				r := records[i]
				printDetail("%s  %s - %s", r.PlayedAt.Local().Format("2006-01-02 15:04"), r.Artist, r.Track)
				shown++
			}
			printInfo("%d of %d plays", shown, len(records))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "number of plays to print")

	return cmd
}
