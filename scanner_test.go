package qrstudio

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeHandle struct {
	mu        sync.Mutex
	onSuccess func(string)
	onError   func(string)
	cleared   int
	renderErr error
}

func (h *fakeHandle) Render(onSuccess func(string), onError func(string)) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.renderErr != nil {
		return h.renderErr
	}

	h.onSuccess = onSuccess
	h.onError = onError

	return nil
}

func (h *fakeHandle) Clear() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.cleared++

	return nil
}

func (h *fakeHandle) decode(text string) {
	h.mu.Lock()
	fn := h.onSuccess
	h.mu.Unlock()

	fn(text)
}

func (h *fakeHandle) fail(msg string) {
	h.mu.Lock()
	fn := h.onError
	h.mu.Unlock()

	fn(msg)
}

func (h *fakeHandle) clearCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()

	return h.cleared
}

// fakeCamera builds fakeHandles and remembers them.
type fakeCamera struct {
	mu        sync.Mutex
	handles   []*fakeHandle
	configs   []ScanConfig
	elements  []string
	createErr error
	renderErr error
}

func (c *fakeCamera) NewScanner(elementID string, cfg ScanConfig) (ScanHandle, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.createErr != nil {
		return nil, c.createErr
	}

	h := &fakeHandle{renderErr: c.renderErr}
	c.handles = append(c.handles, h)
	c.configs = append(c.configs, cfg)
	c.elements = append(c.elements, elementID)

	return h, nil
}

func (c *fakeCamera) last() *fakeHandle {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.handles[len(c.handles)-1]
}

// active counts handles that were created but never cleared.
func (c *fakeCamera) active() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := 0

	for _, h := range c.handles {
		if h.clearCount() == 0 {
			n++
		}
	}

	return n
}

type scanFixture struct {
	scanner *Scanner
	camera  *fakeCamera
	toasts  *Recorder
	hook    *test.Hook
	results []string
}

func newScanFixture(t *testing.T) *scanFixture {
	t.Helper()

	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)

	f := &scanFixture{camera: &fakeCamera{}, toasts: &Recorder{}, hook: hook}
	f.scanner = NewScanner(f.camera, func(text string) {
		f.results = append(f.results, text)
	}, f.toasts, logger)

	return f
}

func (f *scanFixture) warnings() []string {
	var out []string

	for _, e := range f.hook.AllEntries() {
		if e.Level == logrus.WarnLevel {
			out = append(out, fmt.Sprint(e.Data["error"]))
		}
	}

	return out
}

func TestScannerStartsIdle(t *testing.T) {
	f := newScanFixture(t)

	assert.Equal(t, Idle{}, f.scanner.State())
	assert.False(t, f.scanner.Scanning())
	assert.Empty(t, f.scanner.LastResult())
	assert.Equal(t, ScannerHint, f.scanner.Hint())
}

func TestScannerStartUsesConfig(t *testing.T) {
	f := newScanFixture(t)

	require.NoError(t, f.scanner.Start())
	assert.True(t, f.scanner.Scanning())
	assert.Equal(t, Scanning{}, f.scanner.State())
	assert.Empty(t, f.scanner.Hint())

	require.Len(t, f.camera.configs, 1)
	assert.Equal(t, ReaderElementID, f.camera.elements[0])
	assert.Equal(t, ScanConfig{
		FPS:             10,
		BoxWidth:        250,
		BoxHeight:       250,
		ViewfinderWidth: 400,
		AspectRatio:     1.0,

		ShowTorchButtonIfSupported:  true,
		ShowZoomSliderIfSupported:   true,
		DefaultZoomValueIfSupported: 2,
	}, f.camera.configs[0])
}

func TestScannerSuccessfulDecode(t *testing.T) {
	f := newScanFixture(t)

	require.NoError(t, f.scanner.Start())
	h := f.camera.last()

	h.decode("HELLO")

	assert.Equal(t, []string{"HELLO"}, f.results)
	assert.Equal(t, "HELLO", f.scanner.LastResult())
	assert.False(t, f.scanner.Scanning())
	assert.Equal(t, Idle{}, f.scanner.State())
	assert.Equal(t, 1, h.clearCount())
	assert.Zero(t, f.camera.active())
	assert.Empty(t, f.scanner.Hint())

	assert.Equal(t, []Notification{{Success: true, Message: MsgScanSuccess}}, f.toasts.Notifications())
}

func TestScannerIgnoresEventsFromReleasedHandle(t *testing.T) {
	f := newScanFixture(t)

	require.NoError(t, f.scanner.Start())
	h := f.camera.last()

	h.decode("FIRST")
	h.decode("SECOND")

	assert.Equal(t, []string{"FIRST"}, f.results)
	assert.Equal(t, "FIRST", f.scanner.LastResult())
	assert.Equal(t, 1, h.clearCount())

	require.NoError(t, f.scanner.Start())
	f.scanner.Stop()
	f.camera.last().decode("LATE")

	assert.Equal(t, []string{"FIRST"}, f.results)
	assert.Len(t, f.toasts.Notifications(), 1)
}

func TestScannerRestartReleasesPrevious(t *testing.T) {
	f := newScanFixture(t)

	for i := 0; i < 3; i++ {
		require.NoError(t, f.scanner.Start())
		assert.Equal(t, 1, f.camera.active())
	}

	require.Len(t, f.camera.handles, 3)
	assert.Equal(t, 1, f.camera.handles[0].clearCount())
	assert.Equal(t, 1, f.camera.handles[1].clearCount())
	assert.Zero(t, f.camera.handles[2].clearCount())
	assert.True(t, f.scanner.Scanning())

	// The replaced handle can no longer complete the session.
	f.camera.handles[0].decode("STALE")
	assert.Empty(t, f.results)
	assert.True(t, f.scanner.Scanning())
}

func TestScannerStop(t *testing.T) {
	f := newScanFixture(t)

	require.NoError(t, f.scanner.Start())
	f.scanner.Stop()

	assert.False(t, f.scanner.Scanning())
	assert.Equal(t, 1, f.camera.last().clearCount())
	assert.Empty(t, f.results)
	assert.Empty(t, f.toasts.Notifications())

	// Stopping twice is harmless.
	f.scanner.Stop()
	assert.Equal(t, 1, f.camera.last().clearCount())
}

func TestScannerClose(t *testing.T) {
	f := newScanFixture(t)

	require.NoError(t, f.scanner.Start())
	h := f.camera.last()

	f.scanner.Close()
	assert.Equal(t, 1, h.clearCount())
	assert.False(t, f.scanner.Scanning())

	h.decode("AFTER")
	assert.Empty(t, f.results)
	assert.Empty(t, f.toasts.Notifications())

	assert.ErrorIs(t, f.scanner.Start(), ErrScannerClosed)
	assert.Len(t, f.camera.handles, 1)
}

func TestScannerErrorFilter(t *testing.T) {
	f := newScanFixture(t)

	require.NoError(t, f.scanner.Start())
	h := f.camera.last()

	h.fail("QR code parse error, error = NotFoundException: No MultiFormat Readers were able to detect the code.")
	h.fail("decode: No MultiFormat Readers were able to detect the code")
	assert.Empty(t, f.warnings())

	h.fail("camera frame unreadable")
	assert.Equal(t, []string{"camera frame unreadable"}, f.warnings())

	// Errors never reach the user and never end the session.
	assert.Empty(t, f.toasts.Notifications())
	assert.True(t, f.scanner.Scanning())
}

func TestScannerCreateFailure(t *testing.T) {
	f := newScanFixture(t)
	f.camera.createErr = errors.New("permission denied")

	err := f.scanner.Start()
	assert.ErrorContains(t, err, "permission denied")
	assert.False(t, f.scanner.Scanning())
	assert.Equal(t, ScannerHint, f.scanner.Hint())
}

func TestScannerRenderFailureReleasesHandle(t *testing.T) {
	f := newScanFixture(t)
	f.camera.renderErr = errors.New("device busy")

	err := f.scanner.Start()
	assert.ErrorContains(t, err, "device busy")
	assert.False(t, f.scanner.Scanning())
	assert.Equal(t, 1, f.camera.last().clearCount())
}

func TestScannerConcurrentDecodeAndStop(t *testing.T) {
	f := newScanFixture(t)
	f.scanner.onScan = nil

	for i := 0; i < 50; i++ {
		require.NoError(t, f.scanner.Start())
		h := f.camera.last()

		var wg sync.WaitGroup

		wg.Add(2)

		go func() {
			defer wg.Done()
			h.decode("RACE")
		}()

		go func() {
			defer wg.Done()
			f.scanner.Stop()
		}()

		wg.Wait()

		assert.False(t, f.scanner.Scanning())
		assert.GreaterOrEqual(t, h.clearCount(), 1)
	}

	assert.Zero(t, f.camera.active())
}
