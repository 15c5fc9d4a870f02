package commands

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"maturity-assessment/config"
)

var upload = struct {
	dir           string
	configuration string
}{}

var UploadCmd = &cobra.Command{
	Use:   "upload",
	Short: "Uploads previously generated decks to the SharePoint document library",
	Long: `Uploads the generated PPTX decks from the output directory to the configured
SharePoint document library folder, authenticating with the configured
method (application credentials or username/password).`,
	Example: `  SHAREPOINT_CLIENT_ID=... SHAREPOINT_CLIENT_SECRET=... \
  ` + APP + ` upload --dir "output" --config "maturity.yaml"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return uploadAll(cmd.Context())
	},
}

func init() {
	flagset := UploadCmd.Flags()

	flagset.StringVar(&upload.dir, "dir", "", "Directory containing the generated decks. Defaults to the configured output directory")
	flagset.StringVar(&upload.configuration, "config", DEFAULT_CONFIG, "Configuration file path")
}

func uploadAll(ctx context.Context) error {
	cfg, err := config.Load(upload.configuration)
	if err != nil {
		return err
	}

	dir := upload.dir
	if dir == "" {
		dir = cfg.Deck.OutputDir
	}

	files, err := filepath.Glob(filepath.Join(dir, "*.pptx"))
	if err != nil {
		return err
	}

	if len(files) == 0 {
		return fmt.Errorf("no decks found in %s", dir)
	}

	return uploadDecks(ctx, cfg.SharePoint, files)
}
