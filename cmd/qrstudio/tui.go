package main

import (
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/RashadAnsari/qrstudio"
	"github.com/RashadAnsari/qrstudio/internal/camera"
	"github.com/RashadAnsari/qrstudio/internal/tui"
)

func newTUICmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "tui FRAME...",
		Short: "Interactive generator and scanner",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, frames []string) error {
			// The terminal belongs to the UI.
			a.logger.SetOutput(io.Discard)

			toasts := &qrstudio.Recorder{}
			results := make(chan string, 8)

			gen := qrstudio.NewGenerator(qrstudio.DirSaver{Dir: a.cfg.Generate.OutputDir}, toasts, a.logger)

			factory := camera.Factory{
				Open: func() (camera.FrameSource, error) {
					return camera.Open(frames...)
				},
				Logger: a.logger,
			}

			scanner := qrstudio.NewScanner(factory, func(text string) {
				select {
				case results <- text:
				default:
				}
			}, toasts, a.logger)
			scanner.Config = a.cfg.Scan.ScanConfig()

			_, err := tea.NewProgram(tui.NewApp(gen, scanner, results, toasts), tea.WithAltScreen()).Run()

			return err
		},
	}
}
