package qrstudio

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
)

const (
	// ReaderElementID names the viewport a scanner is bound to.
	ReaderElementID = "qr-reader"

	// NoSymbolMarker appears in every "nothing found in this frame" error.
	NoSymbolMarker = "No MultiFormat Readers"

	MsgScanSuccess = "QR code scanned successfully!"
	ScannerHint    = "Click the button above to start scanning QR codes"
)

var ErrScannerClosed = errors.New("scanner closed")

// ScanConfig configures a scan handle. The box is measured in viewfinder
// units: ViewfinderWidth is the on-screen width of the camera view, and the
// box is scaled by frame width / ViewfinderWidth.
type ScanConfig struct {
	FPS             int
	BoxWidth        int
	BoxHeight       int
	ViewfinderWidth int
	AspectRatio     float64

	ShowTorchButtonIfSupported  bool
	ShowZoomSliderIfSupported   bool
	DefaultZoomValueIfSupported float64
}

func DefaultScanConfig() ScanConfig {
	return ScanConfig{
		FPS:             10,
		BoxWidth:        250,
		BoxHeight:       250,
		ViewfinderWidth: 400,
		AspectRatio:     1.0,

		ShowTorchButtonIfSupported:  true,
		ShowZoomSliderIfSupported:   true,
		DefaultZoomValueIfSupported: 2,
	}
}

// ScanHandle is a camera bound scanner. Render starts sampling frames;
// onSuccess and onError may be called from another goroutine. Clear stops
// sampling and releases the camera; it must be safe to call from within a
// callback.
type ScanHandle interface {
	Render(onSuccess func(text string), onError func(msg string)) error
	Clear() error
}

type ScannerFactory interface {
	NewScanner(elementID string, cfg ScanConfig) (ScanHandle, error)
}

type ScannerFactoryFunc func(elementID string, cfg ScanConfig) (ScanHandle, error)

func (f ScannerFactoryFunc) NewScanner(elementID string, cfg ScanConfig) (ScanHandle, error) {
	return f(elementID, cfg)
}

// SessionState is one of Idle, Scanning or Completed.
type SessionState interface {
	sessionState()
}

type (
	Idle      struct{}
	Scanning  struct{}
	Completed struct{ Text string }
)

func (Idle) sessionState()      {}
func (Scanning) sessionState()  {}
func (Completed) sessionState() {}

// Scanner drives one scan session at a time. A handle exists exactly while
// the state is Scanning; every exit path releases it.
type Scanner struct {
	// lifecycle serialises Start, Stop and Close.
	lifecycle sync.Mutex

	mu     sync.Mutex
	handle ScanHandle
	state  SessionState
	last   string
	closed bool

	factory  ScannerFactory
	onScan   func(text string)
	notifier Notifier
	logger   logrus.FieldLogger

	Config ScanConfig
}

func NewScanner(factory ScannerFactory, onScan func(text string), notifier Notifier, logger logrus.FieldLogger) *Scanner {
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	return &Scanner{
		state:    Idle{},
		factory:  factory,
		onScan:   onScan,
		notifier: notifier,
		logger:   logger.WithField("component", "scanner"),
		Config:   DefaultScanConfig(),
	}
}

func (s *Scanner) State() SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.state
}

func (s *Scanner) Scanning() bool {
	_, ok := s.State().(Scanning)

	return ok
}

func (s *Scanner) LastResult() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.last
}

// Hint is the empty state text, shown while idle with no result yet.
func (s *Scanner) Hint() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, idle := s.state.(Idle); !idle || s.last != "" {
		return ""
	}

	return ScannerHint
}

// Start releases any running handle and begins a new session.
func (s *Scanner) Start() error {
	s.lifecycle.Lock()
	defer s.lifecycle.Unlock()

	if prev, err := s.detach(); err != nil {
		return err
	} else if prev != nil {
		s.release(prev)
	}

	h, err := s.factory.NewScanner(ReaderElementID, s.Config)
	if err != nil {
		s.logger.WithError(err).Error("scanner unavailable")

		return fmt.Errorf("create scanner: %w", err)
	}

	s.mu.Lock()
	s.handle = h
	s.state = Scanning{}
	s.mu.Unlock()

	onSuccess := func(text string) { s.decoded(h, text) }

	if err := h.Render(onSuccess, s.scanError); err != nil {
		s.mu.Lock()
		if s.handle == h {
			s.handle = nil
			s.state = Idle{}
		}
		s.mu.Unlock()

		s.release(h)
		s.logger.WithError(err).Error("scanner failed to start")

		return fmt.Errorf("render scanner: %w", err)
	}

	s.logger.WithField("fps", s.Config.FPS).Debug("scan session started")

	return nil
}

// Stop ends the session, if any.
func (s *Scanner) Stop() {
	s.lifecycle.Lock()
	defer s.lifecycle.Unlock()

	if h, _ := s.detach(); h != nil {
		s.release(h)
		s.logger.Debug("scan session stopped")
	}
}

// Close tears the view down: the handle is released and no notification
// or callback fires afterwards. Start fails once closed.
func (s *Scanner) Close() {
	s.lifecycle.Lock()
	defer s.lifecycle.Unlock()

	h, _ := s.detach()

	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()

	if h != nil {
		s.release(h)
	}
}

// detach takes the current handle and moves to Idle.
func (s *Scanner) detach() (ScanHandle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, ErrScannerClosed
	}

	h := s.handle
	s.handle = nil
	s.state = Idle{}

	return h, nil
}

func (s *Scanner) decoded(h ScanHandle, text string) {
	s.mu.Lock()
	if s.handle != h || s.closed {
		// Late event from a released handle.
		s.mu.Unlock()

		return
	}

	completed := Completed{Text: text}
	s.handle = nil
	s.state = completed
	s.last = text
	s.mu.Unlock()

	s.logger.WithField("text", text).Info("QR code scanned")

	if s.onScan != nil {
		s.onScan(text)
	}

	s.notifier.Success(MsgScanSuccess)
	s.release(h)

	s.mu.Lock()
	if s.state == SessionState(completed) {
		s.state = Idle{}
	}
	s.mu.Unlock()
}

func (s *Scanner) scanError(msg string) {
	if strings.Contains(msg, NoSymbolMarker) {
		return
	}

	s.logger.WithField("error", msg).Warn("QR scan error")
}

func (s *Scanner) release(h ScanHandle) {
	if err := h.Clear(); err != nil {
		s.logger.WithError(err).Warn("failed to release scanner")
	}
}
