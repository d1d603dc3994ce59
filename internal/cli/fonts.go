package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/streamlytics/streamlytics/pkg/poster"
)

// fontsCommand creates the font listing command.
func (c *CLI) fontsCommand() *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "fonts",
		Short: "List TrueType fonts available for posters",
		RunE: func(cmd *cobra.Command, args []string) error {
			fonts, err := poster.ListFonts(dir)
			if err != nil {
				return err
			}
			if len(fonts) == 0 {
				printInfo("No fonts found, posters use the embedded Go Regular face")
				return nil
			}
			for _, path := range fonts {
				name := filepath.Base(path)
				fmt.Printf("%s  %s\n", StyleValue.Render(name), StyleDim.Render(path))
			}
			printInfo("%d fonts", len(fonts))
			return nil
		},
	}

	cmd.Flags().StringVarP(&dir, "dir", "d", "", "extra folder to scan for .ttf files")

	return cmd
}
