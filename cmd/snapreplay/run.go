package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"snapedit/internal/app"
	"snapedit/internal/logging"
	"snapedit/internal/script"
)

func newRunCmd() *cobra.Command {
	var scriptPath, outDir string

	cmd := &cobra.Command{
		Use:   "run --script FILE [image...]",
		Short: "Replay a gesture script and write each capture as PNG",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			sc, err := script.Load(scriptPath)
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
			runner := script.NewRunner(state)
			if err := runner.Open(sc); err != nil {
				return err
			}
			for _, p := range args {
				if _, err := state.OpenFile(p); err != nil {
					return err
				}
			}
			if state.Count() == 0 {
				return fmt.Errorf("no captures: list them in the script or pass image paths")
			}
			if err := state.SwitchTo(0); err != nil {
				return err
			}

			if err := runner.Run(cmd.Context(), sc); err != nil {
				return err
			}
			if err := state.Close(); err != nil {
				return err
			}
			for _, n := range runner.Notices() {
				fmt.Fprintln(cmd.ErrOrStderr(), "notice:", n)
			}

			for i, c := range state.Captures() {
				path := outputName(dir, i, c.Name, "")
				if err := writePNG(path, c.Current()); err != nil {
					return err
				}
				logging.Logger().Info("capture written", "path", path, "layers", c.LayerCount())
				fmt.Fprintln(cmd.OutOrStdout(), path)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&scriptPath, "script", "s", "", "gesture script (YAML)")
	cmd.Flags().StringVarP(&outDir, "out", "o", ".", "output directory")
	_ = cmd.MarkFlagRequired("script")
	return cmd
}
