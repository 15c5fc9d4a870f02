package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"maturity-assessment/config"
	"maturity-assessment/deck"
	"maturity-assessment/recommend"
	"maturity-assessment/sharepoint"
	"maturity-assessment/survey"
)

var generate = struct {
	workdir        string
	credentials    string
	url            string
	area           string
	configuration  string
	template       string
	out            string
	workers        int
	force          bool
	skipUnmodified bool
	dryrun         bool
}{}

var GenerateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generates a personalised maturity assessment presentation for each respondent",
	Long: `Downloads the survey responses from the Google Sheets worksheet, calculates
the five category scores for each respondent, generates AI recommendations
for each scored category and renders a personalised PPTX deck from the
template. Respondents with an existing deck are skipped unless --force is
specified. With SharePoint upload enabled, the generated decks are stored
in the configured document library.`,
	Example: `  ` + APP + ` generate --credentials "credentials.json" \
                               --url "https://docs.google.com/spreadsheets/d/1BxiMVs0XRA5nFMdKvBdBZjgmUUqptlbs74OgvE2upms" \
                               --template "Maturity_Slide_Template.pptx" \
                               --out "output"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(generate.configuration)
		if err != nil {
			return err
		}

		merge(cmd, cfg)

		return generateDecks(cmd.Context(), cfg)
	},
}

func init() {
	flagset := GenerateCmd.Flags()

	flagset.StringVar(&generate.workdir, "workdir", DEFAULT_WORKDIR, "Directory for working files (tokens, revisions, etc)")
	flagset.StringVar(&generate.credentials, "credentials", DEFAULT_CREDENTIALS, "Path for the 'credentials.json' file")
	flagset.StringVar(&generate.url, "url", "", "Spreadsheet URL")
	flagset.StringVar(&generate.area, "range", "", "Spreadsheet range e.g. 'Form Responses 1!A1:Z'")
	flagset.StringVar(&generate.configuration, "config", DEFAULT_CONFIG, "Configuration file path")
	flagset.StringVar(&generate.template, "template", "", "PPTX template path")
	flagset.StringVar(&generate.out, "out", "", "Output directory for the generated decks")
	flagset.IntVar(&generate.workers, "workers", 1, "Number of respondents processed concurrently")
	flagset.BoolVar(&generate.force, "force", false, "Regenerates decks that already exist")
	flagset.BoolVar(&generate.skipUnmodified, "skip-unmodified", false, "Skips the run if the spreadsheet is unchanged since the last run")
	flagset.BoolVar(&generate.dryrun, "dry-run", false, "Renders decks with placeholder recommendations and without uploading")
}

// merge fills unset command line options from the configuration file.
func merge(cmd *cobra.Command, cfg config.Config) {
	if !cmd.Flags().Changed("url") && cfg.Sheet.URL != "" {
		generate.url = cfg.Sheet.URL
	}

	if !cmd.Flags().Changed("range") && cfg.Sheet.Range != "" {
		generate.area = cfg.Sheet.Range
	}

	if !cmd.Flags().Changed("credentials") && cfg.Sheet.Credentials != "" {
		generate.credentials = cfg.Sheet.Credentials
	}

	if !cmd.Flags().Changed("template") && cfg.Deck.Template != "" {
		generate.template = cfg.Deck.Template
	}

	if !cmd.Flags().Changed("out") && cfg.Deck.OutputDir != "" {
		generate.out = cfg.Deck.OutputDir
	}
}

func generateDecks(ctx context.Context, cfg config.Config) error {
	// ... check parameters
	if strings.TrimSpace(generate.credentials) == "" {
		return fmt.Errorf("--credentials is a required option")
	}

	if strings.TrimSpace(generate.url) == "" {
		return fmt.Errorf("--url is a required option")
	}

	if strings.TrimSpace(generate.area) == "" {
		return fmt.Errorf("--range is a required option")
	}

	if strings.TrimSpace(generate.template) == "" {
		return fmt.Errorf("--template is a required option")
	}

	spreadsheet, err := spreadsheetID(generate.url)
	if err != nil {
		return err
	}

	debugf("Spreadsheet - ID:%s  range:%s", spreadsheet, generate.area)

	// ... authorise
	client, err := authorize(generate.credentials, generate.workdir)
	if err != nil {
		return fmt.Errorf("authentication/authorization error (%v)", err)
	}

	// ... skip the run if the spreadsheet is unchanged
	var latest *revision

	if generate.skipUnmodified {
		gdrive, err := drive.NewService(ctx, option.WithHTTPClient(client))
		if err != nil {
			return fmt.Errorf("unable to create new Drive client (%v)", err)
		}

		if latest, err = getRevision(gdrive, spreadsheet, ctx); err != nil {
			return fmt.Errorf("unable to retrieve spreadsheet revision (%v)", err)
		}

		if cached := cachedRevision(generate.workdir, spreadsheet); cached != nil && cached.Revision == latest.Revision {
			infof("Spreadsheet unchanged since %v - nothing to do", cached.Modified.Format("2006-01-02 15:04:05"))
			return nil
		}
	}

	// ... fetch and parse the responses
	google, err := sheets.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return fmt.Errorf("unable to create new Sheets client (%v)", err)
	}

	response, err := google.Spreadsheets.Values.Get(spreadsheet, generate.area).Context(ctx).Do()
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

	infof("Retrieved %v responses (%v questions)", len(s.Responses), len(s.Questions))

	// ... recommendations provider
	var provider recommend.Provider

	if !generate.dryrun {
		if provider, err = newProvider(ctx, cfg.LLM); err != nil {
			return err
		}
	}

	timeout := 60 * time.Second
	if d, err := time.ParseDuration(cfg.LLM.Timeout); err == nil && d > 0 {
		timeout = d
	}

	// ... render the decks
	if err := os.MkdirAll(generate.out, 0770); err != nil {
		return err
	}

	var g errgroup.Group
	var mu sync.Mutex

	generated := []string{}
	skipped := 0
	failed := 0

	g.SetLimit(generate.workers)

	for _, r := range s.Responses {
		r := r

		g.Go(func() error {
			filename := survey.Filename(r.Email)
			path := filepath.Join(generate.out, filename)

			if !generate.force {
				if _, err := os.Stat(path); err == nil {
					debugf("%s  deck exists - skipped", r.Email)
					mu.Lock()
					skipped++
					mu.Unlock()
					return nil
				}
			}

			if err := renderDeck(ctx, provider, timeout, s, r, path); err != nil {
				warnf("%s  %v", r.Email, err)
				mu.Lock()
				failed++
				mu.Unlock()
				return nil
			}

			infof("%s  generated %s", r.Email, filename)
			mu.Lock()
			generated = append(generated, path)
			mu.Unlock()

			return nil
		})
	}

	g.Wait()

	infof("Generated %v presentations (%v skipped, %v failed)", len(generated), skipped, failed)

	if len(generated) == 0 && failed > 0 {
		return fmt.Errorf("all %v presentations failed", failed)
	}

	// ... upload
	if cfg.SharePoint.Upload && !generate.dryrun && len(generated) > 0 {
		if err := uploadDecks(ctx, cfg.SharePoint, generated); err != nil {
			return err
		}
	}

	if generate.skipUnmodified && latest != nil {
		if err := storeRevision(generate.workdir, spreadsheet, latest); err != nil {
			warnf("unable to record spreadsheet revision (%v)", err)
		}
	}

	return nil
}

func newProvider(ctx context.Context, cfg config.LLMConfig) (recommend.Provider, error) {
	switch cfg.Provider {
	case "", "openai":
		return recommend.NewOpenAI(cfg.APIKey, cfg.Model, "")

	case "gemini":
		return recommend.NewGenAI(ctx, cfg.APIKey, cfg.Model)

	default:
		return nil, fmt.Errorf("unsupported LLM provider '%s' - expected 'openai' or 'gemini'", cfg.Provider)
	}
}

// renderDeck builds one respondent's deck: category scores, recommendations
// for each scored category and the rendered template saved to path.
func renderDeck(ctx context.Context, provider recommend.Provider, timeout time.Duration, s *survey.Survey, r survey.Response, path string) error {
	scores := r.Scores(s.Questions)
	if len(scores) == 0 {
		return fmt.Errorf("no valid answers - skipped")
	}

	content := map[string]deck.Content{}

	for category, score := range scores {
		rec := recommend.Recommendation{
			Recommendations: []string{"Dry run - recommendations not generated"},
		}

		if provider != nil {
			rq := recommend.Request{
				Category: string(category),
				Score:    score,
			}

			for _, q := range s.QuestionsFor(category) {
				if rating, ok := r.Answers[q.Key]; ok {
					rq.Questions = append(rq.Questions, recommend.QuestionScore{Question: q.Column, Score: rating})
				}
			}

			debugf("%s  generating recommendations for %s (score: %.2f)", r.Email, category, score)

			deadline, cancel := context.WithTimeout(ctx, timeout)
			generated, err := recommend.Generate(deadline, provider, rq)
			cancel()

			if err != nil {
				warnf("%s  error generating recommendations for %s (%v)", r.Email, category, err)
			}

			rec = generated
		}

		content[string(category)] = deck.Content{
			Score:           score,
			Recommendations: rec.Recommendations,
		}
	}

	d, err := deck.Open(generate.template)
	if err != nil {
		return err
	}

	if err := d.Render(content); err != nil {
		return err
	}

	return d.Save(path)
}

func uploadDecks(ctx context.Context, cfg config.SharePointConfig, files []string) error {
	sp, err := sharepoint.NewClient(ctx, sharepoint.Config{
		SiteURL:      cfg.SiteURL,
		Tenant:       cfg.Tenant,
		Folder:       cfg.Folder,
		AuthMethod:   cfg.AuthMethod,
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		Username:     cfg.Username,
		Password:     cfg.Password,
		Authority:    cfg.Authority,
	})

	if err != nil {
		if hint := sharepoint.Hint(err); hint != "" {
			warnf("SharePoint authentication failed - %s", hint)
		}

		return err
	}

	failed := 0
	for _, file := range files {
		if err := sp.Upload(ctx, file, filepath.Base(file)); err != nil {
			warnf("%s  %v", filepath.Base(file), err)
			if hint := sharepoint.Hint(err); hint != "" {
				warnf("%s  %s", filepath.Base(file), hint)
			}
			failed++
			continue
		}

		infof("Uploaded %s", filepath.Base(file))
	}

	if failed > 0 {
		return fmt.Errorf("%v of %v uploads failed", failed, len(files))
	}

	return nil
}
