package tui

import (
	"context"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/RashadAnsari/qrstudio"
)

// GeneratorModel edits the URL and shows its symbol.
type GeneratorModel struct {
	gen *qrstudio.Generator
	err error
}

func NewGeneratorModel(gen *qrstudio.Generator) GeneratorModel {
	return GeneratorModel{gen: gen}
}

func (m GeneratorModel) Update(msg tea.Msg) (GeneratorModel, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key.Type {
	case tea.KeyRunes:
		m.gen.SetURL(m.gen.URL() + string(key.Runes))
	case tea.KeySpace:
		m.gen.SetURL(m.gen.URL() + " ")
	case tea.KeyBackspace:
		if r := []rune(m.gen.URL()); len(r) > 0 {
			m.gen.SetURL(string(r[:len(r)-1]))
		}
	case tea.KeyCtrlU:
		m.gen.SetURL("")
	case tea.KeyCtrlS:
		if !m.gen.DownloadEnabled() && m.gen.URL() != "" {
			return m, nil
		}

		m.err = m.gen.Download(context.Background())
	}

	return m, nil
}

func (m GeneratorModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle("QR Code Generator"))
	b.WriteString("\nPaste any URL to generate a QR code instantly\n\n")
	b.WriteString("Enter URL: " + m.gen.URL() + "█\n\n")

	if hint := m.gen.Placeholder(); hint != "" {
		b.WriteString(hint + "\n")

		return b.String()
	}

	sym, err := m.gen.Symbol()
	if err != nil {
		b.WriteString("error: " + err.Error() + "\n")

		return b.String()
	}

	b.WriteString(sym.Terminal())
	b.WriteString("\n")

	if w := m.gen.Warning(); w != "" {
		b.WriteString(w + "\n")
	}

	if m.gen.DownloadEnabled() {
		b.WriteString("[ctrl+s] Download QR Code\n")
	} else {
		b.WriteString("[ctrl+s] Download QR Code (disabled)\n")
	}

	if m.err != nil {
		b.WriteString("error: " + m.err.Error() + "\n")
	}

	return b.String()
}
