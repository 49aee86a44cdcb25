package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/RashadAnsari/qrstudio"
	"github.com/RashadAnsari/qrstudio/internal/camera"
)

var errScanTimeout = errors.New("no QR code found before timeout")

func newScanCmd(a *app) *cobra.Command {
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "scan FRAME...",
		Short: "Scan image frames (files or a directory) for a QR code",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.scan(cmd, args, timeout)
		},
	}

	flags := cmd.Flags()
	flags.DurationVar(&timeout, "timeout", 10*time.Second, "give up after this long")
	flags.Int("fps", 10, "frames sampled per second")

	cobra.CheckErr(a.v.BindPFlag("scan.fps", flags.Lookup("fps")))

	return cmd
}

func (a *app) scan(cmd *cobra.Command, frames []string, timeout time.Duration) error {
	factory := camera.Factory{
		Open: func() (camera.FrameSource, error) {
			return camera.Open(frames...)
		},
		Logger: a.logger,
	}

	results := make(chan string, 1)

	scanner := qrstudio.NewScanner(factory, func(text string) {
		results <- text
	}, qrstudio.LogNotifier{Logger: a.logger}, a.logger)
	scanner.Config = a.cfg.Scan.ScanConfig()

	defer scanner.Close()

	if err := scanner.Start(); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	select {
	case text := <-results:
		_, err := fmt.Fprintln(cmd.OutOrStdout(), text)

		return err
	case <-ctx.Done():
		return errScanTimeout
	}
}
