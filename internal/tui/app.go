// Package tui hosts the generator and scanner views in a terminal.
package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/RashadAnsari/qrstudio"
)

type view int

const (
	generatorView view = iota
	scannerView
)

// App switches between the two views with tab.
type App struct {
	active    view
	generator GeneratorModel
	scanner   ScannerModel
	toasts    *qrstudio.Recorder

	// teardown runs once when the program quits.
	teardown func()
}

func NewApp(gen *qrstudio.Generator, scanner *qrstudio.Scanner, results <-chan string, toasts *qrstudio.Recorder) App {
	return App{
		generator: NewGeneratorModel(gen),
		scanner:   NewScannerModel(scanner, results),
		toasts:    toasts,
		teardown:  scanner.Close,
	}
}

func (a App) Init() tea.Cmd {
	return a.scanner.Init()
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			a.teardown()

			return a, tea.Quit
		case tea.KeyTab:
			a.active = 1 - a.active

			return a, nil
		}

		if a.active == generatorView {
			a.generator, cmd = a.generator.Update(msg)
		} else {
			a.scanner, cmd = a.scanner.Update(msg)
		}

	case scanResultMsg:
		a.scanner, cmd = a.scanner.Update(msg)
	}

	return a, cmd
}

func (a App) View() string {
	var b strings.Builder

	if a.active == generatorView {
		b.WriteString(a.generator.View())
	} else {
		b.WriteString(a.scanner.View())
	}

	if n, ok := a.toasts.Last(); ok {
		mark := "✓"
		if !n.Success {
			mark = "✗"
		}

		b.WriteString("\n" + mark + " " + n.Message + "\n")
	}

	b.WriteString("\n[tab] switch view  [esc] quit\n")

	return b.String()
}

func titleStyle(s string) string {
	return s + "\n" + strings.Repeat("=", len(s))
}
