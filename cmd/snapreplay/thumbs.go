package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"snapedit/internal/app"
)

func newThumbsCmd() *cobra.Command {
	var height int
	var outDir string

	cmd := &cobra.Command{
		Use:   "thumbs image...",
		Short: "Write a thumbnail of each image",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			dir, err := outputDir(outDir)
			if err != nil {
				return err
			}
			state, err := app.NewState(cfg)
			if err != nil {
				return err
			}
			for _, p := range args {
				if _, err := state.OpenFile(p); err != nil {
					return err
				}
			}

			captures := state.Captures()
			for i, thumb := range state.Thumbnails(height) {
				path := outputName(dir, i, captures[i].Name, "-thumb")
				if err := writePNG(path, thumb); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), path)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&height, "height", 0, "thumbnail height in pixels (default from config)")
	cmd.Flags().StringVarP(&outDir, "out", "o", ".", "output directory")
	return cmd
}
