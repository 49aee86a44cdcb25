package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/RashadAnsari/qrstudio"
)

type scanResultMsg struct {
	text string
}

// ScannerModel starts and stops scan sessions. Results arrive on a channel
// fed by the scanner callback.
type ScannerModel struct {
	scanner *qrstudio.Scanner
	results <-chan string
	err     error
}

func NewScannerModel(scanner *qrstudio.Scanner, results <-chan string) ScannerModel {
	return ScannerModel{scanner: scanner, results: results}
}

func (m ScannerModel) Init() tea.Cmd {
	return waitForResult(m.results)
}

func waitForResult(results <-chan string) tea.Cmd {
	return func() tea.Msg {
		text, ok := <-results
		if !ok {
			return nil
		}

		return scanResultMsg{text: text}
	}
}

func (m ScannerModel) Update(msg tea.Msg) (ScannerModel, tea.Cmd) {
	switch msg := msg.(type) {
	case scanResultMsg:
		return m, waitForResult(m.results)

	case tea.KeyMsg:
		if msg.String() != "s" && msg.Type != tea.KeyEnter {
			return m, nil
		}

		if m.scanner.Scanning() {
			m.scanner.Stop()
			m.err = nil
		} else {
			m.err = m.scanner.Start()
		}
	}

	return m, nil
}

func (m ScannerModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle("QR Code Scanner"))
	b.WriteString("\nScan QR codes using your device camera\n\n")

	if m.scanner.Scanning() {
		b.WriteString("[s] Stop Scanner\n\nscanning...\n")
	} else {
		b.WriteString("[s] Start Camera Scanner\n")
	}

	if last := m.scanner.LastResult(); last != "" {
		b.WriteString("\nLast Scanned Result:\n" + last + "\n")
	}

	if hint := m.scanner.Hint(); hint != "" {
		b.WriteString("\n" + hint + "\n")
	}

	if m.err != nil {
		b.WriteString("\nerror: " + m.err.Error() + "\n")
	}

	return b.String()
}
