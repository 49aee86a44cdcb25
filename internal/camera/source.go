package camera

import (
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	_ "golang.org/x/image/bmp"
)

var (
	ErrSourceExhausted = errors.New("frame source has no frames")
	ErrSourceClosed    = errors.New("frame source closed")
)

// Capabilities are the optional controls a source exposes.
type Capabilities struct {
	Torch bool
	Zoom  bool
}

// FrameSource stands in for a camera stream.
type FrameSource interface {
	Next(ctx context.Context) (image.Image, error)
	Capabilities() Capabilities
	Close() error
}

var frameExts = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
	".bmp":  true,
}

// FileSource replays image files in order, looping at the end.
type FileSource struct {
	mu     sync.Mutex
	paths  []string
	next   int
	closed bool

	Caps Capabilities
}

func NewFileSource(paths ...string) (*FileSource, error) {
	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			return nil, fmt.Errorf("open frame: %w", err)
		}
	}

	return &FileSource{paths: append([]string(nil), paths...)}, nil
}

// NewDirSource replays every image file of dir in name order.
func NewDirSource(dir string) (*FileSource, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("open frame dir: %w", err)
	}

	var paths []string

	for _, e := range entries {
		if e.IsDir() || !frameExts[strings.ToLower(filepath.Ext(e.Name()))] {
			continue
		}

		paths = append(paths, filepath.Join(dir, e.Name()))
	}

	sort.Strings(paths)

	return NewFileSource(paths...)
}

// Open picks a directory or file source for each path.
func Open(paths ...string) (*FileSource, error) {
	if len(paths) == 1 {
		if fi, err := os.Stat(paths[0]); err == nil && fi.IsDir() {
			return NewDirSource(paths[0])
		}
	}

	return NewFileSource(paths...)
}

func (s *FileSource) Next(ctx context.Context) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()

		return nil, ErrSourceClosed
	}

	if len(s.paths) == 0 {
		s.mu.Unlock()

		return nil, ErrSourceExhausted
	}

	path := s.paths[s.next]
	s.next = (s.next + 1) % len(s.paths)
	s.mu.Unlock()

	return readImage(path)
}

func (s *FileSource) Capabilities() Capabilities {
	return s.Caps
}

func (s *FileSource) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true

	return nil
}

func readImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("read frame: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode frame %s: %w", filepath.Base(path), err)
	}

	return img, nil
}

// StillSource returns the same image on every call.
type StillSource struct {
	Image image.Image
	Caps  Capabilities
}

func (s StillSource) Next(ctx context.Context) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if s.Image == nil {
		return nil, ErrSourceExhausted
	}

	return s.Image, nil
}

func (s StillSource) Capabilities() Capabilities {
	return s.Caps
}

func (s StillSource) Close() error {
	return nil
}
