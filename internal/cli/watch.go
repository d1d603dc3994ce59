package cli

import (
	"context"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/streamlytics/streamlytics/pkg/config"
	"github.com/streamlytics/streamlytics/pkg/poster"
)

// debounce window: image downloads arrive in bursts, regenerate once
// per burst instead of once per file.
const watchSettle = 2 * time.Second

// watchCommand creates the folder watch command.
func (c *CLI) watchCommand() *cobra.Command {
	var (
		output string
		mode   string
		title  string
	)

	cmd := &cobra.Command{
		Use:   "watch [folder]",
		Short: "Watch a folder and regenerate the poster on change",
		Long: `Watch a folder of cover art and regenerate the poster whenever an
image is added, replaced, or removed. Stops on Ctrl-C.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			appCfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			return c.runWatch(cmd.Context(), args[0], output, mode, title, appCfg)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default derives from the folder name)")
	cmd.Flags().StringVarP(&mode, "mode", "m", modeCollage, "poster mode: grid, billboard, collage")
	cmd.Flags().StringVarP(&title, "title", "t", "", "poster title")

	return cmd
}

func (c *CLI) runWatch(ctx context.Context, folder, output, mode, title string, appCfg config.Config) error {
	logger := loggerFromContext(ctx)

	if output == "" {
		base := filepath.Base(filepath.Clean(folder))
		output = filepath.Join(appCfg.Poster.OutputDir, base+"_"+mode+".jpg")
	}

	generate := func() {
		var cfg poster.Config
		if mode == modeBillboard {
			cfg = poster.DefaultBillboardConfig()
		} else {
			cfg = poster.DefaultConfig()
		}
		cfg.Title = title
		if appCfg.Poster.FontName != "" {
			cfg.TitleFont.Name = appCfg.Poster.FontName
			cfg.SubtitleFont.Name = appCfg.Poster.FontName
		}

		var err error
		switch mode {
		case modeGrid:
			_, err = poster.Grid(folder, output, cfg)
		case modeBillboard:
			_, err = poster.Billboard(folder, output, cfg)
		default:
			_, err = poster.Collage(folder, output, cfg)
		}
		if err != nil {
			printError("Regeneration failed: %v", err)
			return
		}
		printSuccess("Regenerated poster")
		printFile(output)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()
	if err := watcher.Add(folder); err != nil {
		return err
	}

	logger.Infof("Watching %s (Ctrl-C to stop)", folder)
	generate()

	var timer *time.Timer
	pending := make(chan struct{}, 1)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !isImageEvent(event) {
				continue
			}
			logger.Debugf("Change detected: %s %s", event.Op, event.Name)
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(watchSettle, func() {
				select {
				case pending <- struct{}{}:
				default:
				}
			})
		case <-pending:
			generate()
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			printWarning("Watch error: %v", err)
		}
	}
}

// isImageEvent reports whether the event touches an image file we care about.
func isImageEvent(event fsnotify.Event) bool {
	if !event.Op.Has(fsnotify.Create) && !event.Op.Has(fsnotify.Write) &&
		!event.Op.Has(fsnotify.Remove) && !event.Op.Has(fsnotify.Rename) {
		return false
	}
	switch strings.ToLower(filepath.Ext(event.Name)) {
	case ".jpg", ".jpeg", ".png":
		return true
	}
	return false
}
