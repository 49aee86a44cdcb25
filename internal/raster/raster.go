package raster

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"strconv"
	"strings"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
)

var ErrNoSize = errors.New("svg has no intrinsic size")

// Intrinsic returns the width and height declared on the root svg element,
// falling back to the view box when width or height is missing.
func Intrinsic(svg []byte) (int, int, error) {
	dec := xml.NewDecoder(bytes.NewReader(svg))

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			return 0, 0, fmt.Errorf("%w: no svg element", ErrNoSize)
		} else if err != nil {
			return 0, 0, fmt.Errorf("read svg: %w", err)
		}

		start, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}

		if start.Name.Local != "svg" {
			return 0, 0, fmt.Errorf("%w: root element is %q", ErrNoSize, start.Name.Local)
		}

		return sizeOf(start.Attr)
	}
}

func sizeOf(attrs []xml.Attr) (int, int, error) {
	var w, h int

	var viewBox string

	for _, a := range attrs {
		switch a.Name.Local {
		case "width":
			w = length(a.Value)
		case "height":
			h = length(a.Value)
		case "viewBox":
			viewBox = a.Value
		}
	}

	if w > 0 && h > 0 {
		return w, h, nil
	}

	f := strings.Fields(strings.ReplaceAll(viewBox, ",", " "))
	if len(f) == 4 {
		vw, vh := length(f[2]), length(f[3])
		if vw > 0 && vh > 0 {
			return vw, vh, nil
		}
	}

	return 0, 0, ErrNoSize
}

func length(v string) int {
	v = strings.TrimSuffix(strings.TrimSpace(v), "px")

	f, err := strconv.ParseFloat(v, 64)
	if err != nil || f <= 0 {
		return 0
	}

	return int(f + 0.5)
}

// FromSVG draws the svg read from r onto a new width x height bitmap.
func FromSVG(r io.Reader, width, height int) (*image.RGBA, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrNoSize, width, height)
	}

	icon, err := oksvg.ReadIconStream(r)
	if err != nil {
		return nil, fmt.Errorf("parse svg: %w", err)
	}

	icon.SetTarget(0, 0, float64(width), float64(height))

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	scanner := rasterx.NewScannerGV(width, height, img, img.Bounds())
	icon.Draw(rasterx.NewDasher(width, height, scanner), 1.0)

	return img, nil
}

// Rasterize decodes an svg document at its intrinsic size.
func Rasterize(svg []byte) (*image.RGBA, error) {
	w, h, err := Intrinsic(svg)
	if err != nil {
		return nil, err
	}

	return FromSVG(bytes.NewReader(svg), w, h)
}

func EncodePNG(w io.Writer, img image.Image) error {
	encoder := png.Encoder{CompressionLevel: png.BestCompression}

	if err := encoder.Encode(w, img); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}

	return nil
}
