package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"maturity-assessment/survey"
)

var get = struct {
	workdir     string
	credentials string
	url         string
	area        string
	file        string
}{}

var GetCmd = &cobra.Command{
	Use:   "get",
	Short: "Retrieves the survey responses worksheet and stores it to a local TSV file",
	Long:  "Downloads the survey responses from the Google Sheets worksheet, validates them and writes them to a tab-separated file for offline use.",
	Example: `  ` + APP + ` get --credentials "credentials.json" \
                          --url "https://docs.google.com/spreadsheets/d/1BxiMVs0XRA5nFMdKvBdBZjgmUUqptlbs74OgvE2upms" \
                          --range "Form Responses 1!A1:Z" \
                          --file "responses.tsv"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return getResponses(cmd.Context())
	},
}

func init() {
	flagset := GetCmd.Flags()

	flagset.StringVar(&get.workdir, "workdir", DEFAULT_WORKDIR, "Directory for working files (tokens, revisions, etc)")
	flagset.StringVar(&get.credentials, "credentials", DEFAULT_CREDENTIALS, "Path for the 'credentials.json' file")
	flagset.StringVar(&get.url, "url", "", "Spreadsheet URL")
	flagset.StringVar(&get.area, "range", "Form Responses 1!A1:Z", "Spreadsheet range e.g. 'Form Responses 1!A1:Z'")
	flagset.StringVar(&get.file, "file", time.Now().Format("responses 2006-01-02T150405.tsv"), "TSV file name. Defaults to 'responses <yyyy-mm-ddTHHmmss>.tsv'")
}

func getResponses(ctx context.Context) error {
	// ... check parameters
	if strings.TrimSpace(get.credentials) == "" {
		return fmt.Errorf("--credentials is a required option")
	}

	if strings.TrimSpace(get.url) == "" {
		return fmt.Errorf("--url is a required option")
	}

	if strings.TrimSpace(get.area) == "" {
		return fmt.Errorf("--range is a required option")
	}

	spreadsheet, err := spreadsheetID(get.url)
	if err != nil {
		return err
	}

	debugf("Spreadsheet - ID:%s  range:%s", spreadsheet, get.area)

	// ... authorise
	client, err := authorize(get.credentials, get.workdir)
	if err != nil {
		return fmt.Errorf("authentication/authorization error (%v)", err)
	}

	google, err := sheets.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return fmt.Errorf("unable to create new Sheets client (%v)", err)
	}

	response, err := google.Spreadsheets.Values.Get(spreadsheet, get.area).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("unable to retrieve data from sheet (%v)", err)
	}

	if len(response.Values) == 0 {
		return fmt.Errorf("no data in spreadsheet/range")
	}

	s, err := survey.ParseSheet(response)
	if err != nil {
		return fmt.Errorf("error parsing survey responses (%v)", err)
	}

	tmp, err := os.CreateTemp(os.TempDir(), "responses")
	if err != nil {
		return err
	}

	defer func() {
		tmp.Close()
		os.Remove(tmp.Name())
	}()

	if err := responsesToTSV(tmp, s); err != nil {
		return fmt.Errorf("error creating TSV file (%v)", err)
	}

	tmp.Close()

	dir := filepath.Dir(get.file)
	if err := os.MkdirAll(dir, 0770); err != nil {
		return err
	}

	if err := os.Rename(tmp.Name(), get.file); err != nil {
		return err
	}

	infof("Retrieved %v responses to file %s", len(s.Responses), get.file)

	return nil
}
