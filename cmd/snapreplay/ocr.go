package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"snapedit/internal/app"
	"snapedit/internal/effects"
	"snapedit/internal/ocr"
	"snapedit/pkg/geometry"
)

func newOCRCmd() *cobra.Command {
	var rectFlag, lang, tessdata string
	var words bool

	cmd := &cobra.Command{
		Use:   "ocr image",
		Short: "Print the text found in an image or a region of it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if lang == "" {
				lang = cfg.OCR.Language
			}
			if tessdata == "" {
				tessdata = cfg.OCR.TessdataPath
			}

			state, err := app.NewState(cfg)
			if err != nil {
				return err
			}
			c, err := state.OpenFile(args[0])
			if err != nil {
				return err
			}

			rect := geometry.RectInt{Width: c.Bounds().Dx(), Height: c.Bounds().Dy()}
			if rectFlag != "" {
				if rect, err = parseRect(rectFlag); err != nil {
					return err
				}
			}

			engine, err := ocr.NewEngine(lang, tessdata)
			if err != nil {
				return err
			}
			defer engine.Close()

			if !words {
				state.SetRecognizer(engine)
				text, err := state.RecognizeText(rect.ToFloat())
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), text)
				return nil
			}

			region, err := effects.Crop(c.Current(), rect.Image())
			if err != nil {
				return err
			}
			found, err := engine.Words(region)
			if err != nil {
				return err
			}
			for _, w := range found {
				b := w.Bounds
				fmt.Fprintf(cmd.OutOrStdout(), "%d,%d,%d,%d\t%.0f\t%s\n",
					b.X+rect.X, b.Y+rect.Y, b.Width, b.Height, w.Confidence, w.Text)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&rectFlag, "rect", "", "region as x,y,width,height (default whole image)")
	cmd.Flags().StringVar(&lang, "lang", "", "tesseract language (default from config)")
	cmd.Flags().StringVar(&tessdata, "tessdata", "", "tessdata directory (default from config)")
	cmd.Flags().BoolVar(&words, "words", false, "list each word with its bounds and confidence")
	return cmd
}

func parseRect(s string) (geometry.RectInt, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return geometry.RectInt{}, fmt.Errorf("invalid rect %q: want x,y,width,height", s)
	}
	var v [4]int
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return geometry.RectInt{}, fmt.Errorf("invalid rect %q: %w", s, err)
		}
		v[i] = n
	}
	if v[2] <= 0 || v[3] <= 0 {
		return geometry.RectInt{}, fmt.Errorf("invalid rect %q: width and height must be positive", s)
	}
	return geometry.RectInt{X: v[0], Y: v[1], Width: v[2], Height: v[3]}, nil
}
