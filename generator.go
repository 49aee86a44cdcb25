package qrstudio

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image/color"

	"github.com/sirupsen/logrus"

	"github.com/RashadAnsari/qrstudio/internal/blob"
	"github.com/RashadAnsari/qrstudio/internal/raster"
)

const (
	// DownloadFileName is the name of every downloaded symbol.
	DownloadFileName = "qr-code.png"

	// InvalidURLWarning is shown under a symbol whose content is not a URL.
	InvalidURLWarning = "Please enter a valid URL starting with http:// or https://"

	// GeneratorHint replaces the symbol while the input is empty.
	GeneratorHint = "Enter a URL above to generate your QR code"

	// Notification texts of Download.
	MsgNoSymbol        = "No QR code to download"
	MsgDownloadSuccess = "QR code downloaded successfully!"
)

// Foreground colors of a symbol with valid and invalid content.
var (
	ValidColor   = color.RGBA{R: 0x1f, G: 0x29, B: 0x37, A: 0xff}
	InvalidColor = color.RGBA{R: 0xef, G: 0x44, B: 0x44, A: 0xff}
)

var (
	// ErrNoSymbol is returned when there is no input to render.
	ErrNoSymbol = errors.New("no symbol rendered")

	// ErrInvalidURL is returned by Download while the input is not a valid URL.
	ErrInvalidURL = errors.New("invalid url")
)

// Generator holds the URL typed by the user and turns it into a symbol and
// a PNG download. It is not safe for concurrent use.
type Generator struct {
	url string

	Level RecoveryLevel

	// Blobs hands out the temporary URL used while rasterizing.
	Blobs *blob.Registry

	Saver    Saver
	Notifier Notifier
	Logger   logrus.FieldLogger
}

func NewGenerator(saver Saver, notifier Notifier, logger logrus.FieldLogger) *Generator {
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	return &Generator{
		Level:    Medium,
		Blobs:    blob.NewRegistry(),
		Saver:    saver,
		Notifier: notifier,
		Logger:   logger.WithField("component", "generator"),
	}
}

// SetURL replaces the stored string verbatim.
func (g *Generator) SetURL(s string) {
	g.url = s
}

func (g *Generator) URL() string {
	return g.url
}

func (g *Generator) Valid() bool {
	return IsValidURL(g.url)
}

// Warning is the inline message shown under an invalid symbol.
func (g *Generator) Warning() string {
	if g.url == "" || g.Valid() {
		return ""
	}

	return InvalidURLWarning
}

// Placeholder is shown instead of a symbol while the input is empty.
func (g *Generator) Placeholder() string {
	if g.url != "" {
		return ""
	}

	return GeneratorHint
}

func (g *Generator) DownloadEnabled() bool {
	return g.url != "" && g.Valid()
}

// Symbol renders the current string, valid or not. It returns nil, nil when
// the string is empty.
func (g *Generator) Symbol() (*Symbol, error) {
	if g.url == "" {
		return nil, nil
	}

	sym, err := NewSymbol(g.url, g.Level)
	if err != nil {
		return nil, err
	}

	sym.ForegroundColor = InvalidColor
	if g.Valid() {
		sym.ForegroundColor = ValidColor
	}

	return sym, nil
}

// Download rasterizes the on-screen SVG at its intrinsic size and saves it
// as DownloadFileName.
func (g *Generator) Download(ctx context.Context) error {
	sym, err := g.Symbol()
	if err != nil {
		return err
	}

	if sym == nil {
		g.Notifier.Error(MsgNoSymbol)

		return ErrNoSymbol
	}

	if !g.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidURL, g.url)
	}

	svg, err := sym.SVG()
	if err != nil {
		return err
	}

	url := g.Blobs.Create(svg, "image/svg+xml;charset=utf-8")
	defer g.Blobs.Revoke(url)

	data, err := g.rasterize(url)
	if err != nil {
		return err
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	if err := g.Saver.Save(DownloadFileName, data); err != nil {
		return fmt.Errorf("save %s: %w", DownloadFileName, err)
	}

	g.Logger.WithFields(logrus.Fields{"file": DownloadFileName, "bytes": len(data)}).Debug("symbol downloaded")
	g.Notifier.Success(MsgDownloadSuccess)

	return nil
}

func (g *Generator) rasterize(url string) ([]byte, error) {
	b, err := g.Blobs.Open(url)
	if err != nil {
		return nil, err
	}

	img, err := raster.Rasterize(b.Data)
	if err != nil {
		return nil, err
	}

	var out bytes.Buffer

	if err := raster.EncodePNG(&out, img); err != nil {
		return nil, err
	}

	return out.Bytes(), nil
}

// Export renders the current symbol in any supported format.
func (g *Generator) Export(f Format, size int, base64 bool) ([]byte, error) {
	sym, err := g.Symbol()
	if err != nil {
		return nil, err
	}

	if sym == nil {
		return nil, ErrNoSymbol
	}

	sym.Base64 = base64

	return sym.Export(f, size)
}
