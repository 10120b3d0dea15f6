package render

import (
	"fmt"
	"math"
	"strings"
	"sync"

	"github.com/gogpu/gg/text"
	"golang.org/x/image/font/gofont/goregular"
)

var (
	sourceOnce sync.Once
	source     *text.FontSource
	sourceErr  error

	facesMu sync.Mutex
	faces   = make(map[float64]text.Face)
)

// maxFaces bounds the face cache. Resizing text produces a new size on
// every drag step, so the cache starts over once it is full.
const maxFaces = 32

// faceKey rounds a font size to the half pixel faces are cached at.
func faceKey(size float64) float64 {
	return math.Max(0.5, math.Round(size*2)/2)
}

func fontSource() (*text.FontSource, error) {
	sourceOnce.Do(func() {
		source, sourceErr = text.NewFontSource(goregular.TTF)
		if sourceErr != nil {
			sourceErr = fmt.Errorf("failed to load Go Regular font: %w", sourceErr)
		}
	})
	return source, sourceErr
}

// fontFace returns a cached face for the given pixel size, rounded to
// the nearest half pixel.
func fontFace(size float64) (text.Face, error) {
	if size <= 0 {
		return nil, fmt.Errorf("invalid font size %.1f", size)
	}
	src, err := fontSource()
	if err != nil {
		return nil, err
	}

	facesMu.Lock()
	defer facesMu.Unlock()
	key := faceKey(size)
	if f, ok := faces[key]; ok {
		return f, nil
	}
	if len(faces) >= maxFaces {
		clear(faces)
	}
	f := src.Face(key)
	faces[key] = f
	return f, nil
}

// MeasureText returns the size of a text block drawn at the given font size.
// Each line advances by the font's line height.
func MeasureText(s string, size float64) (w, h float64, err error) {
	face, err := fontFace(size)
	if err != nil {
		return 0, 0, err
	}
	_, lineHeight := text.Measure("Mg", face)
	lines := strings.Split(s, "\n")
	for _, line := range lines {
		lw, _ := text.Measure(line, face)
		if lw > w {
			w = lw
		}
	}
	return w, lineHeight * float64(len(lines)), nil
}
