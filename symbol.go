package qrstudio

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"strconv"
	"strings"

	svgo "github.com/ajstarks/svgo"
	"github.com/signintech/gopdf"
	qrcode "github.com/skip2/go-qrcode"
	"golang.org/x/image/bmp"

	"github.com/RashadAnsari/qrstudio/internal/raster"
)

// RecoveryLevel is the error correction level of a symbol.
type RecoveryLevel = qrcode.RecoveryLevel

const (
	Low     = qrcode.Low
	Medium  = qrcode.Medium
	High    = qrcode.High
	Highest = qrcode.Highest
)

const (
	// DisplaySize is the on-screen footprint of a rendered symbol.
	DisplaySize = 200

	// ViewBoxSize is the side of the SVG coordinate system.
	ViewBoxSize = 256
)

var (
	ErrEmptyContent      = errors.New("no content to encode")
	ErrUnsupportedFormat = errors.New("unsupported output format")
)

// Format is an export format of a symbol.
type Format string

const (
	FormatSVG  Format = "svg"
	FormatPNG  Format = "png"
	FormatJPEG Format = "jpeg"
	FormatPDF  Format = "pdf"
	FormatBMP  Format = "bmp"
)

// ParseFormat maps a user supplied format name to a Format.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatSVG, FormatPNG, FormatJPEG, FormatPDF, FormatBMP:
		return f, nil
	case "jpg":
		return FormatJPEG, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
	}
}

// MIMEType returns the media type used for data URLs and downloads.
func (f Format) MIMEType() string {
	switch f {
	case FormatSVG:
		return "image/svg+xml"
	case FormatPNG:
		return "image/png"
	case FormatJPEG:
		return "image/jpeg"
	case FormatPDF:
		return "application/pdf"
	case FormatBMP:
		return "image/bmp"
	default:
		return "application/octet-stream"
	}
}

type Symbol struct {
	// Original content encoded, byte for byte.
	content string

	level RecoveryLevel

	// User settable drawing options.
	ForegroundColor color.Color
	BackgroundColor color.Color

	// Size is the rendered footprint, ViewBox the SVG coordinate space.
	Size    int
	ViewBox int

	// Base 64 output.
	Base64 bool

	qr *qrcode.QRCode
}

func NewSymbol(content string, level RecoveryLevel) (*Symbol, error) {
	if content == "" {
		return nil, ErrEmptyContent
	}

	qr, err := qrcode.New(content, level)
	if err != nil {
		return nil, fmt.Errorf("encode symbol: %w", err)
	}

	return &Symbol{
		content: content,
		level:   level,

		ForegroundColor: color.Black,
		BackgroundColor: color.White,

		Size:    DisplaySize,
		ViewBox: ViewBoxSize,

		qr: qr,
	}, nil
}

func (s *Symbol) Content() string {
	return s.content
}

func (s *Symbol) Level() RecoveryLevel {
	return s.level
}

// Modules returns the number of modules per side, quiet zone included.
func (s *Symbol) Modules() int {
	return len(s.qr.Bitmap())
}

// Terminal renders the symbol with half block characters, two module rows
// per line.
func (s *Symbol) Terminal() string {
	bitmap := s.qr.Bitmap()

	var b strings.Builder

	for y := 0; y < len(bitmap); y += 2 {
		for x := range bitmap[y] {
			top := bitmap[y][x]
			bottom := y+1 < len(bitmap) && bitmap[y+1][x]

			switch {
			case top && bottom:
				b.WriteRune('█')
			case top:
				b.WriteRune('▀')
			case bottom:
				b.WriteRune('▄')
			default:
				b.WriteRune(' ')
			}
		}

		b.WriteByte('\n')
	}

	return b.String()
}

// Export renders the symbol in the given format at the given raster size.
// size is ignored for SVG, which always uses the display footprint.
func (s *Symbol) Export(f Format, size int) ([]byte, error) {
	switch f {
	case FormatSVG:
		return s.SVG()
	case FormatPNG:
		return s.PNG(size)
	case FormatJPEG:
		return s.JPEG(size)
	case FormatPDF:
		return s.PDF(size)
	case FormatBMP:
		return s.BMP(size)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, string(f))
	}
}

func (s *Symbol) image(size int) image.Image {
	bitmap := s.qr.Bitmap()

	// Minimum pixels (both width and height) required.
	realSize := len(bitmap)

	// Variable size support.
	if size < 0 {
		size = size * -1 * realSize
	}

	if size < realSize {
		size = realSize
	}

	rect := image.Rectangle{Max: image.Point{X: size, Y: size}}

	p := color.Palette([]color.Color{s.BackgroundColor, s.ForegroundColor})
	img := image.NewPaletted(rect, p)

	// Map each image pixel to the nearest module.
	modulesPerPixel := float64(realSize) / float64(size)

	for y := 0; y < size; y++ {
		y2 := int(float64(y) * modulesPerPixel)

		for x := 0; x < size; x++ {
			x2 := int(float64(x) * modulesPerPixel)

			if bitmap[y2][x2] {
				img.SetColorIndex(x, y, 1)
			}
		}
	}

	return img
}

func (s *Symbol) PNG(size int) ([]byte, error) {
	var b bytes.Buffer

	if err := raster.EncodePNG(&b, s.image(size)); err != nil {
		return nil, err
	}

	return s.output(FormatPNG, b.Bytes()), nil
}

func (s *Symbol) JPEG(size int) ([]byte, error) {
	var b bytes.Buffer

	if err := jpeg.Encode(&b, s.image(size), &jpeg.Options{Quality: jpeg.DefaultQuality}); err != nil {
		return nil, err
	}

	return s.output(FormatJPEG, b.Bytes()), nil
}

func (s *Symbol) BMP(size int) ([]byte, error) {
	var b bytes.Buffer

	if err := bmp.Encode(&b, s.image(size)); err != nil {
		return nil, err
	}

	return s.output(FormatBMP, b.Bytes()), nil
}

func (s *Symbol) PDF(size int) ([]byte, error) {
	img := s.image(size)
	side := float64(img.Bounds().Dx())

	var b bytes.Buffer

	pdf := gopdf.GoPdf{}

	rect := gopdf.Rect{W: side, H: side}

	pdf.Start(gopdf.Config{Unit: gopdf.UnitPT, PageSize: rect})
	pdf.AddPage()

	if err := pdf.ImageFrom(img, 0, 0, &rect); err != nil {
		return nil, err
	}

	if err := pdf.Write(&b); err != nil {
		return nil, err
	}

	return s.output(FormatPDF, b.Bytes()), nil
}

// SVG draws the dark modules as one path in view box units, one subpath
// per horizontal run.
func (s *Symbol) SVG() ([]byte, error) {
	bitmap := s.qr.Bitmap()
	n := len(bitmap)

	if n == 0 {
		return nil, ErrEmptyContent
	}

	unit := float64(s.ViewBox) / float64(n)

	var d strings.Builder

	for y := 0; y < n; y++ {
		for x := 0; x < n; {
			if !bitmap[y][x] {
				x++

				continue
			}

			start := x
			for x < n && bitmap[y][x] {
				x++
			}

			w := float64(x-start) * unit
			fmt.Fprintf(&d, "M%s %sh%sv%sh-%sz", coord(float64(start)*unit), coord(float64(y)*unit), coord(w), coord(unit), coord(w))
		}
	}

	var b bytes.Buffer

	canvas := svgo.New(&b)

	canvas.Startview(s.Size, s.Size, 0, 0, s.ViewBox, s.ViewBox)
	canvas.Rect(0, 0, s.ViewBox, s.ViewBox, fillAttr(s.BackgroundColor))
	canvas.Path(d.String(), fillAttr(s.ForegroundColor))
	canvas.End()

	return s.output(FormatSVG, b.Bytes()), nil
}

func coord(v float64) string {
	return strconv.FormatFloat(v, 'f', 3, 64)
}

func (s *Symbol) output(f Format, bts []byte) []byte {
	if !s.Base64 {
		return bts
	}

	return []byte(fmt.Sprintf("data:%s;base64,%s", f.MIMEType(), base64.StdEncoding.EncodeToString(bts)))
}

func fillAttr(c color.Color) string {
	return fmt.Sprintf(`fill=%q`, HexColor(c))
}

// HexColor formats c as #rrggbb, ignoring alpha.
func HexColor(c color.Color) string {
	r, g, b, _ := c.RGBA()

	return fmt.Sprintf("#%02x%02x%02x", r>>8, g>>8, b>>8)
}

// ParseHexColor parses #rgb or #rrggbb.
func ParseHexColor(s string) (color.RGBA, error) {
	c := color.RGBA{A: 0xff}

	var err error

	switch len(s) {
	case 7:
		_, err = fmt.Sscanf(s, "#%02x%02x%02x", &c.R, &c.G, &c.B)
	case 4:
		_, err = fmt.Sscanf(s, "#%1x%1x%1x", &c.R, &c.G, &c.B)
		c.R *= 17
		c.G *= 17
		c.B *= 17
	default:
		err = fmt.Errorf("invalid length %d", len(s))
	}

	if err != nil {
		return color.RGBA{}, fmt.Errorf("parse color %q: %w", s, err)
	}

	return c, nil
}
