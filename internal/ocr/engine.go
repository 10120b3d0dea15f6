// Package ocr recognizes text in regions of a capture using Tesseract.
package ocr

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"sync"

	"github.com/otiai10/gosseract/v2"
	"gocv.io/x/gocv"

	"snapedit/pkg/geometry"
)

// minHeight is the smallest dimension Tesseract is given; smaller regions
// are upscaled first.
const minHeight = 150

// Engine provides OCR using Tesseract. It is safe for concurrent use; calls
// are serialized on the single client.
type Engine struct {
	mu     sync.Mutex
	client *gosseract.Client
}

// NewEngine creates an engine for language. A non-empty tessdataPath
// overrides where trained data is loaded from.
func NewEngine(language, tessdataPath string) (*Engine, error) {
	client := gosseract.NewClient()

	if tessdataPath != "" {
		if err := client.SetTessdataPrefix(tessdataPath); err != nil {
			client.Close()
			return nil, fmt.Errorf("failed to set tessdata path: %w", err)
		}
	}
	if language == "" {
		language = "eng"
	}
	if err := client.SetLanguage(language); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to set OCR language: %w", err)
	}

	return &Engine{client: client}, nil
}

// Close releases OCR resources.
func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.client != nil {
		err := e.client.Close()
		e.client = nil
		return err
	}
	return nil
}

// Recognize returns the text in img with whitespace collapsed.
func (e *Engine) Recognize(img image.Image) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.client == nil {
		return "", fmt.Errorf("engine is closed")
	}

	buf, _, err := prepare(img)
	if err != nil {
		return "", err
	}
	if err := e.client.SetPageSegMode(gosseract.PSM_AUTO); err != nil {
		return "", fmt.Errorf("failed to set PSM: %w", err)
	}
	if err := e.client.SetImageFromBytes(buf); err != nil {
		return "", fmt.Errorf("failed to set image: %w", err)
	}
	text, err := e.client.Text()
	if err != nil {
		return "", fmt.Errorf("OCR failed: %w", err)
	}
	return cleanText(text), nil
}

// Word is a single recognized word and where it was found.
type Word struct {
	Text       string
	Bounds     geometry.RectInt
	Confidence float64
}

// Words finds every word in img. Bounds are in img's coordinates.
func (e *Engine) Words(img image.Image) ([]Word, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.client == nil {
		return nil, fmt.Errorf("engine is closed")
	}

	buf, scale, err := prepare(img)
	if err != nil {
		return nil, err
	}
	if err := e.client.SetPageSegMode(gosseract.PSM_SPARSE_TEXT); err != nil {
		return nil, fmt.Errorf("failed to set PSM: %w", err)
	}
	if err := e.client.SetImageFromBytes(buf); err != nil {
		return nil, fmt.Errorf("failed to set image: %w", err)
	}
	boxes, err := e.client.GetBoundingBoxes(gosseract.RIL_WORD)
	if err != nil {
		return nil, fmt.Errorf("failed to get boxes: %w", err)
	}

	origin := img.Bounds().Min
	var words []Word
	for _, box := range boxes {
		text := cleanText(box.Word)
		if text == "" {
			continue
		}
		words = append(words, Word{
			Text:       text,
			Bounds:     unscale(box.Box, scale, origin),
			Confidence: box.Confidence,
		})
	}
	return words, nil
}

// prepare converts img into the PNG bytes handed to Tesseract and reports
// the upscale factor applied.
func prepare(img image.Image) ([]byte, float64, error) {
	if img == nil || img.Bounds().Empty() {
		return nil, 0, fmt.Errorf("empty image")
	}

	var raw bytes.Buffer
	if err := png.Encode(&raw, img); err != nil {
		return nil, 0, fmt.Errorf("failed to encode region: %w", err)
	}
	mat, err := gocv.IMDecode(raw.Bytes(), gocv.IMReadColor)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to decode region: %w", err)
	}
	defer mat.Close()
	if mat.Empty() {
		return nil, 0, fmt.Errorf("empty image")
	}

	scale := upscaleFactor(mat.Cols(), mat.Rows())
	processed := preprocess(mat, scale)
	defer processed.Close()

	out, err := gocv.IMEncode(gocv.PNGFileExt, processed)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to encode image: %w", err)
	}
	defer out.Close()
	return append([]byte(nil), out.GetBytes()...), scale, nil
}

// preprocess binarizes region as dark text on a light background.
func preprocess(region gocv.Mat, scale float64) gocv.Mat {
	var scaled gocv.Mat
	if scale > 1 {
		scaled = gocv.NewMat()
		gocv.Resize(region, &scaled, image.Point{}, scale, scale, gocv.InterpolationCubic)
	} else {
		scaled = region.Clone()
	}

	gray := gocv.NewMat()
	gocv.CvtColor(scaled, &gray, gocv.ColorBGRToGray)
	scaled.Close()

	clahe := gocv.NewCLAHEWithParams(2.0, image.Point{X: 8, Y: 8})
	defer clahe.Close()
	enhanced := gocv.NewMat()
	clahe.Apply(gray, &enhanced)
	gray.Close()

	binary := gocv.NewMat()
	gocv.Threshold(enhanced, &binary, 0, 255, gocv.ThresholdBinary|gocv.ThresholdOtsu)
	enhanced.Close()

	// Light text on a dark background: invert.
	white := gocv.CountNonZero(binary)
	if float64(white)/float64(binary.Rows()*binary.Cols()) < 0.5 {
		gocv.BitwiseNot(binary, &binary)
	}

	result := gocv.NewMat()
	gocv.CvtColor(binary, &result, gocv.ColorGrayToBGR)
	binary.Close()
	return result
}
