package cmd

import (
	"fmt"
	"os"

	"github.com/OpenTraceLab/nomograph/internal/config"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	verbose bool
	cfgFile string
	slope   string

	conf *config.Config
	log  = logrus.NewEntry(logrus.StandardLogger())
)

var rootCmd = &cobra.Command{
	Use:   "nomo",
	Short: "Nomogram geometry and scale engine",
	Long: `nomo lays out nomograms for additions, multiplications and equations of
the second degree, solves them from the command line and displays them in
an interactive viewer.

A nomogram is named by a catalog ID (see nomo list), a definition file
(.toml, .sexp) or file#id for a file holding several definitions.

Examples:
  nomo list                                   # Bundled nomograms
  nomo solve bmi --set Mass=80 --set Height=1.8
  nomo solve -e "C = 2A + B" --range A=0:5 --range B=0:10 --set A=1
  nomo ticks second-degree --var X            # Graduations of one scale
  nomo view multiplication                    # Interactive viewer`,
	Version:           "0.3.0",
	SilenceUsage:      true,
	PersistentPreRunE: initConfig,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "configuration file (default is searched in ., $XDG_CONFIG_HOME/nomograph, ~/.config/nomograph)")
	rootCmd.PersistentFlags().StringVar(&slope, "slope", "literal", "tangent slope used by the curve fit: literal or chord")
	rootCmd.PersistentFlags().String("log-level", "info", "log level: debug, info, warn, error")
}

// initConfig loads the settings and configures logging before any command
func initConfig(cmd *cobra.Command, args []string) error {
	c, err := config.Load(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}
	conf = c

	logger := logrus.New()
	logger.SetOutput(cmd.ErrOrStderr())
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	logger.SetLevel(conf.Level(verbose))
	log = logrus.NewEntry(logger)

	if conf.File != "" {
		log.WithField("file", conf.File).Debug("configuration loaded")
	}
	return nil
}
