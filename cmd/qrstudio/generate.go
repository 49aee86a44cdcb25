package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/RashadAnsari/qrstudio"
)

func newGenerateCmd(a *app) *cobra.Command {
	var (
		url    string
		base64 bool
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Render a URL as a QR code and save it",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.generate(cmd, url, base64)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&url, "url", "u", "", "URL to encode")
	flags.BoolVar(&base64, "base64", false, "print a base64 data URL instead of writing a file")
	flags.StringP("out", "o", ".", "output directory")
	flags.StringP("format", "f", "png", "output format: png, svg, jpeg, pdf or bmp")
	flags.Int("size", 512, "raster size in pixels for jpeg, pdf and bmp")
	flags.String("level", "medium", "error correction: low, medium, high or highest")

	cobra.CheckErr(cmd.MarkFlagRequired("url"))
	cobra.CheckErr(a.v.BindPFlag("generate.output_dir", flags.Lookup("out")))
	cobra.CheckErr(a.v.BindPFlag("generate.format", flags.Lookup("format")))
	cobra.CheckErr(a.v.BindPFlag("generate.size", flags.Lookup("size")))
	cobra.CheckErr(a.v.BindPFlag("generate.level", flags.Lookup("level")))

	return cmd
}

func (a *app) generate(cmd *cobra.Command, url string, base64 bool) error {
	cfg := a.cfg.Generate

	format, err := qrstudio.ParseFormat(cfg.Format)
	if err != nil {
		return err
	}

	level, err := cfg.RecoveryLevel()
	if err != nil {
		return err
	}

	notifier := qrstudio.LogNotifier{Logger: a.logger}

	gen := qrstudio.NewGenerator(qrstudio.DirSaver{Dir: cfg.OutputDir}, notifier, a.logger)
	gen.Level = level
	gen.SetURL(url)

	if w := gen.Warning(); w != "" {
		a.logger.Warn(w)

		return fmt.Errorf("%w: %q", qrstudio.ErrInvalidURL, url)
	}

	if base64 {
		out, err := gen.Export(format, cfg.Size, true)
		if err != nil {
			return err
		}

		_, err = fmt.Fprintln(cmd.OutOrStdout(), string(out))

		return err
	}

	// PNG goes through the same path as the download button.
	if format == qrstudio.FormatPNG {
		return gen.Download(cmd.Context())
	}

	out, err := gen.Export(format, cfg.Size, false)
	if err != nil {
		return err
	}

	name := strings.TrimSuffix(qrstudio.DownloadFileName, filepath.Ext(qrstudio.DownloadFileName)) + "." + string(format)

	if err := (qrstudio.DirSaver{Dir: cfg.OutputDir}).Save(name, out); err != nil {
		return err
	}

	notifier.Success(fmt.Sprintf("QR code saved to %s", filepath.Join(cfg.OutputDir, name)))

	return nil
}
