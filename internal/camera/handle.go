// Package camera samples frames from a FrameSource and decodes QR symbols
// from them, playing the part of a camera bound scanner.
package camera

import (
	"context"
	"errors"
	"fmt"
	"image"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/RashadAnsari/qrstudio"
	"github.com/RashadAnsari/qrstudio/internal/decode"
)

var ErrAlreadyRendered = errors.New("scanner already rendered")

// Factory opens a fresh source for every scanner it builds.
type Factory struct {
	Open   func() (FrameSource, error)
	Logger logrus.FieldLogger
}

func (f Factory) NewScanner(elementID string, cfg qrstudio.ScanConfig) (qrstudio.ScanHandle, error) {
	src, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("open camera: %w", err)
	}

	logger := f.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	return NewHandle(src, cfg, logger.WithField("element", elementID)), nil
}

// Handle samples its source at cfg.FPS until a symbol is decoded or Clear
// is called.
type Handle struct {
	src    FrameSource
	cfg    qrstudio.ScanConfig
	logger logrus.FieldLogger

	mu      sync.Mutex
	cancel  context.CancelFunc
	group   *errgroup.Group
	cleared bool

	// dispatching is set while a callback runs on the sampler goroutine.
	dispatching atomic.Bool

	zoom float64
}

func NewHandle(src FrameSource, cfg qrstudio.ScanConfig, logger logrus.FieldLogger) *Handle {
	return &Handle{src: src, cfg: cfg, logger: logger}
}

func (h *Handle) Render(onSuccess func(text string), onError func(msg string)) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.cleared {
		return ErrSourceClosed
	}

	if h.group != nil {
		return ErrAlreadyRendered
	}

	caps := h.src.Capabilities()

	h.zoom = 1
	if h.cfg.ShowZoomSliderIfSupported && caps.Zoom {
		h.zoom = h.cfg.DefaultZoomValueIfSupported
	}

	h.logger.WithFields(logrus.Fields{
		"torch": h.cfg.ShowTorchButtonIfSupported && caps.Torch,
		"zoom":  h.zoom,
		"fps":   h.cfg.FPS,
	}).Debug("camera started")

	ctx, cancel := context.WithCancel(context.Background())
	group, ctx := errgroup.WithContext(ctx)

	h.cancel = cancel
	h.group = group

	group.Go(func() error {
		return h.sample(ctx, onSuccess, onError)
	})

	return nil
}

func (h *Handle) interval() time.Duration {
	fps := h.cfg.FPS
	if fps <= 0 {
		fps = qrstudio.DefaultScanConfig().FPS
	}

	return time.Second / time.Duration(fps)
}

func (h *Handle) sample(ctx context.Context, onSuccess func(string), onError func(string)) error {
	ticker := time.NewTicker(h.interval())
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}

		frame, err := h.src.Next(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}

			h.dispatch(ctx, func() { onError(err.Error()) })

			if errors.Is(err, ErrSourceExhausted) || errors.Is(err, ErrSourceClosed) {
				h.logger.WithError(err).Warn("camera sampling ended")

				return err
			}

			continue
		}

		text, err := h.scan(frame)
		if err != nil {
			h.dispatch(ctx, func() { onError(err.Error()) })

			continue
		}

		h.dispatch(ctx, func() { onSuccess(text) })

		return nil
	}
}

// scan decodes the detection box first, then the whole visible viewport.
func (h *Handle) scan(frame image.Image) (string, error) {
	var err error

	for _, r := range h.regions(frame.Bounds()) {
		text, derr := decode.Frame(Crop(frame, r))
		if derr == nil {
			return text, nil
		}

		err = derr
	}

	return "", err
}

// regions returns the detection box and, when it is smaller, the viewport
// it sits in.
func (h *Handle) regions(b image.Rectangle) []image.Rectangle {
	view := Zoom(Viewport(b, h.cfg.AspectRatio), h.zoom)
	box := Box(view, h.cfg.BoxWidth, h.cfg.BoxHeight, h.cfg.ViewfinderWidth)

	if box == view {
		return []image.Rectangle{box}
	}

	return []image.Rectangle{box, view}
}

func (h *Handle) dispatch(ctx context.Context, fn func()) {
	if ctx.Err() != nil {
		return
	}

	h.dispatching.Store(true)
	defer h.dispatching.Store(false)

	fn()
}

// Clear stops sampling and closes the source. Called from inside a
// callback it does not wait for the sampler, which exits on return.
func (h *Handle) Clear() error {
	h.mu.Lock()
	if h.cleared {
		h.mu.Unlock()

		return nil
	}

	h.cleared = true
	cancel, group := h.cancel, h.group
	h.mu.Unlock()

	if cancel != nil {
		cancel()
	}

	var err error

	if group != nil && !h.dispatching.Load() {
		if werr := group.Wait(); werr != nil && !errors.Is(werr, ErrSourceExhausted) && !errors.Is(werr, ErrSourceClosed) {
			err = werr
		}
	}

	if cerr := h.src.Close(); cerr != nil && err == nil {
		err = fmt.Errorf("close camera: %w", cerr)
	}

	return err
}
