package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"maturity-assessment/commands"
)

var debug bool

var root = &cobra.Command{
	Use:   commands.APP,
	Short: "Generates personalised marketing maturity presentations from survey responses",
	Long: `maturity-assessment reads marketing maturity survey responses from a Google
Sheets worksheet, calculates the five category scores for each respondent,
generates AI recommendations and renders a personalised PPTX deck per
respondent, optionally uploading the decks to SharePoint.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		config := zap.NewDevelopmentConfig()
		config.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
		if debug {
			config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}

		logger, err := config.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger (%v)", err)
		}

		commands.SetLogger(logger)

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		commands.SyncLogger()
	},
}

func main() {
	root.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debugging information")

	root.AddCommand(
		commands.AuthoriseCmd,
		commands.GetCmd,
		commands.GenerateCmd,
		commands.ReportCmd,
		commands.UploadCmd,
		commands.VersionCmd,
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "\nERROR: %v\n\n", err)
		os.Exit(1)
	}
}
