package commands

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/oauth2/google"
)

var authorise = struct {
	workdir     string
	credentials string
}{}

var AuthoriseCmd = &cobra.Command{
	Use:     "authorise",
	Aliases: []string{"authorize"},
	Short:   "Authorises " + APP + " to access the survey responses worksheet",
	Long: `Runs the Google OAuth2 consent flow for the spreadsheet and file metadata
scopes and caches the token under the workdir for use by the other
commands.`,
	Example: `  ` + APP + ` authorise --credentials "credentials.json"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return authenticate()
	},
}

func init() {
	flagset := AuthoriseCmd.Flags()

	flagset.StringVar(&authorise.workdir, "workdir", DEFAULT_WORKDIR, "Directory for working files (tokens, revisions, etc)")
	flagset.StringVar(&authorise.credentials, "credentials", DEFAULT_CREDENTIALS, "Path for the 'credentials.json' file")
}

func authenticate() error {
	if strings.TrimSpace(authorise.credentials) == "" {
		return fmt.Errorf("--credentials is a required option")
	}

	b, err := os.ReadFile(authorise.credentials)
	if err != nil {
		return err
	}

	config, err := google.ConfigFromJSON(b, SPREADSHEETS, DRIVE)
	if err != nil {
		return err
	}

	token, err := getTokenFromWeb(config)
	if err != nil {
		return fmt.Errorf("authorisation error (%v)", err)
	}

	tokens := tokenPath(authorise.credentials, authorise.workdir)
	if err := saveToken(tokens, token); err != nil {
		return err
	}

	infof("Saved credentials to %s", tokens)

	return nil
}
