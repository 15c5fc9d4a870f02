package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"maturity-assessment/survey"
)

var report = struct {
	workdir     string
	credentials string
	url         string
	area        string
	scores      string
	file        string
}{}

var ReportCmd = &cobra.Command{
	Use:   "report",
	Short: "Writes the calculated category scores back to a 'Scores' worksheet",
	Long: `Downloads the survey responses from the Google Sheets worksheet, calculates
the five category scores for each respondent and writes them to the scores
worksheet (or, with --file, to a local TSV file).`,
	Example: `  ` + APP + ` report --credentials "credentials.json" \
                             --url "https://docs.google.com/spreadsheets/d/1BxiMVs0XRA5nFMdKvBdBZjgmUUqptlbs74OgvE2upms" \
                             --range "Form Responses 1!A1:Z" \
                             --scores-range "Scores!A1:G"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return reportScores(cmd.Context())
	},
}

func init() {
	flagset := ReportCmd.Flags()

	flagset.StringVar(&report.workdir, "workdir", DEFAULT_WORKDIR, "Directory for working files (tokens, revisions, etc)")
	flagset.StringVar(&report.credentials, "credentials", DEFAULT_CREDENTIALS, "Path for the 'credentials.json' file")
	flagset.StringVar(&report.url, "url", "", "Spreadsheet URL")
	flagset.StringVar(&report.area, "range", "Form Responses 1!A1:Z", "Spreadsheet range for the survey responses")
	flagset.StringVar(&report.scores, "scores-range", "Scores!A1:G", "Spreadsheet range for the calculated scores")
	flagset.StringVar(&report.file, "file", "", "Writes the scores to a local TSV file instead of the scores worksheet")
}

func reportScores(ctx context.Context) error {
	// ... check parameters
	if strings.TrimSpace(report.credentials) == "" {
		return fmt.Errorf("--credentials is a required option")
	}

	if strings.TrimSpace(report.url) == "" {
		return fmt.Errorf("--url is a required option")
	}

	if strings.TrimSpace(report.area) == "" {
		return fmt.Errorf("--range is a required option")
	}

	spreadsheetId, err := spreadsheetID(report.url)
	if err != nil {
		return err
	}

	if report.file == "" {
		if match := strings.SplitN(strings.TrimSpace(report.scores), "!", 2); len(match) < 2 {
			return fmt.Errorf("invalid scores-range '%s' - expected something like 'Scores!A1:G'", report.scores)
		}
	}

	debugf("Spreadsheet - ID:%s  range:%s  scores:%s", spreadsheetId, report.area, report.scores)

	// ... authorise
	client, err := authorize(report.credentials, report.workdir)
	if err != nil {
		return fmt.Errorf("authentication/authorization error (%v)", err)
	}

	google, err := sheets.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return fmt.Errorf("unable to create new Sheets client (%v)", err)
	}

	response, err := google.Spreadsheets.Values.Get(spreadsheetId, report.area).Context(ctx).Do()
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

	// ... local TSV file
	if report.file != "" {
		if err := os.MkdirAll(filepath.Dir(report.file), 0770); err != nil {
			return err
		}

		f, err := os.Create(report.file)
		if err != nil {
			return err
		}

		defer f.Close()

		if err := scoresToTSV(f, s); err != nil {
			return fmt.Errorf("error creating TSV file (%v)", err)
		}

		infof("Wrote scores for %v respondents to file %s", len(s.Responses), report.file)

		return nil
	}

	// ... scores worksheet
	spreadsheet, err := getSpreadsheet(google, spreadsheetId)
	if err != nil {
		return err
	}

	rows := [][]any{}

	header := []any{}
	for _, v := range scoresHeader() {
		header = append(header, v)
	}
	rows = append(rows, header)

	for _, r := range s.Responses {
		record := []any{}
		for _, v := range scoresRecord(s, r) {
			record = append(record, v)
		}
		rows = append(rows, record)
	}

	cleared := sheets.BatchClearValuesRequest{
		Ranges: []string{report.scores},
	}

	if _, err := google.Spreadsheets.Values.BatchClear(spreadsheet.SpreadsheetId, &cleared).Context(ctx).Do(); err != nil {
		return fmt.Errorf("unable to clear scores worksheet (%v)", err)
	}

	rq := sheets.BatchUpdateValuesRequest{
		ValueInputOption: "USER_ENTERED",
		Data: []*sheets.ValueRange{
			{
				Range:  report.scores,
				Values: rows,
			},
		},
	}

	if _, err := google.Spreadsheets.Values.BatchUpdate(spreadsheet.SpreadsheetId, &rq).Context(ctx).Do(); err != nil {
		return fmt.Errorf("error writing scores to Google Sheets (%w)", err)
	}

	infof("Wrote scores for %v respondents to %s", len(s.Responses), report.scores)

	return nil
}
