package main

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/RashadAnsari/qrstudio/internal/config"
	"github.com/RashadAnsari/qrstudio/internal/logging"
)

// app carries what every subcommand needs once flags are parsed.
type app struct {
	v      *viper.Viper
	cfg    config.Config
	logger *logrus.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	var cfgFile string

	root := &cobra.Command{
		Use:           "qrstudio",
		Short:         "Generate QR codes from URLs and scan them from camera frames",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(a.v, cfgFile)
			if err != nil {
				return err
			}

			logger, err := logging.New(cmd.ErrOrStderr(), cfg.Log.Level, cfg.Log.Format)
			if err != nil {
				return err
			}

			a.cfg = cfg
			a.logger = logger

			return nil
		},
	}

	v, err := config.New()
	cobra.CheckErr(err)

	a.v = v

	flags := root.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default ./qrstudio.yaml)")
	flags.String("log-level", "info", "log level")
	flags.String("log-format", "text", "log format: text or json")

	cobra.CheckErr(v.BindPFlag("log.level", flags.Lookup("log-level")))
	cobra.CheckErr(v.BindPFlag("log.format", flags.Lookup("log-format")))

	root.AddCommand(newGenerateCmd(a), newScanCmd(a), newTUICmd(a))

	return root
}
