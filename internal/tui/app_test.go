package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RashadAnsari/qrstudio"
)

type stubHandle struct {
	onSuccess func(string)
	cleared   bool
}

func (h *stubHandle) Render(onSuccess func(string), _ func(string)) error {
	h.onSuccess = onSuccess

	return nil
}

func (h *stubHandle) Clear() error {
	h.cleared = true

	return nil
}

type fixture struct {
	app     App
	saver   *qrstudio.MemorySaver
	toasts  *qrstudio.Recorder
	handle  *stubHandle
	results chan string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	logger, _ := test.NewNullLogger()

	f := &fixture{
		saver:   &qrstudio.MemorySaver{},
		toasts:  &qrstudio.Recorder{},
		results: make(chan string, 1),
	}

	factory := qrstudio.ScannerFactoryFunc(func(string, qrstudio.ScanConfig) (qrstudio.ScanHandle, error) {
		f.handle = &stubHandle{}

		return f.handle, nil
	})

	scanner := qrstudio.NewScanner(factory, func(text string) { f.results <- text }, f.toasts, logger)
	gen := qrstudio.NewGenerator(f.saver, f.toasts, logger)

	f.app = NewApp(gen, scanner, f.results, f.toasts)

	return f
}

func (f *fixture) send(msgs ...tea.Msg) {
	for _, msg := range msgs {
		m, _ := f.app.Update(msg)
		f.app = m.(App)
	}
}

func typeText(s string) tea.Msg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestGeneratorViewValidURL(t *testing.T) {
	f := newFixture(t)

	assert.Contains(t, f.app.View(), qrstudio.GeneratorHint)

	f.send(typeText("https://openai.com"))

	view := f.app.View()
	assert.Contains(t, view, "https://openai.com")
	assert.NotContains(t, view, qrstudio.InvalidURLWarning)
	assert.NotContains(t, view, "(disabled)")

	f.send(tea.KeyMsg{Type: tea.KeyCtrlS})

	_, ok := f.saver.File(qrstudio.DownloadFileName)
	assert.True(t, ok)
	assert.Contains(t, f.app.View(), qrstudio.MsgDownloadSuccess)
}

func TestGeneratorViewInvalidURL(t *testing.T) {
	f := newFixture(t)

	f.send(typeText("ftp:/bad"))

	view := f.app.View()
	assert.Contains(t, view, qrstudio.InvalidURLWarning)
	assert.Contains(t, view, "(disabled)")

	f.send(tea.KeyMsg{Type: tea.KeyCtrlS})
	assert.Zero(t, f.saver.Len())
	assert.Empty(t, f.toasts.Notifications())
}

func TestGeneratorViewEditing(t *testing.T) {
	f := newFixture(t)

	f.send(typeText("abc"), tea.KeyMsg{Type: tea.KeySpace}, typeText("d"), tea.KeyMsg{Type: tea.KeyBackspace})
	assert.Contains(t, f.app.View(), "abc █")

	f.send(tea.KeyMsg{Type: tea.KeyCtrlU})
	assert.Contains(t, f.app.View(), qrstudio.GeneratorHint)

	// Download with nothing rendered reports an error.
	f.send(tea.KeyMsg{Type: tea.KeyCtrlS})
	assert.Contains(t, f.app.View(), qrstudio.MsgNoSymbol)
}

func TestScannerView(t *testing.T) {
	f := newFixture(t)

	f.send(tea.KeyMsg{Type: tea.KeyTab})
	assert.Contains(t, f.app.View(), qrstudio.ScannerHint)

	f.send(typeText("s"))
	require.NotNil(t, f.handle)
	assert.Contains(t, f.app.View(), "Stop Scanner")

	f.handle.onSuccess("HELLO")
	f.send(scanResultMsg{text: <-f.results})

	view := f.app.View()
	assert.Contains(t, view, "Last Scanned Result:\nHELLO")
	assert.Contains(t, view, "Start Camera Scanner")
	assert.Contains(t, view, qrstudio.MsgScanSuccess)
	assert.True(t, f.handle.cleared)
}

func TestQuitReleasesScanner(t *testing.T) {
	f := newFixture(t)

	f.send(tea.KeyMsg{Type: tea.KeyTab}, typeText("s"))
	require.NotNil(t, f.handle)

	m, cmd := f.app.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.True(t, f.handle.cleared)
	assert.NotNil(t, m)
}
