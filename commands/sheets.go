package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"google.golang.org/api/drive/v3"
	"google.golang.org/api/sheets/v4"
)

func getSpreadsheet(google *sheets.Service, id string) (*sheets.Spreadsheet, error) {
	spreadsheet, err := google.Spreadsheets.Get(id).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to fetch spreadsheet (%v)", err)
	}

	return spreadsheet, nil
}

// revision identifies the latest Google Drive revision of the spreadsheet,
// used to skip runs when the responses have not changed.
type revision struct {
	Revision string    `json:"revision"`
	Modified time.Time `json:"modified"`
}

func getRevision(gdrive *drive.Service, fileId string, ctx context.Context) (*revision, error) {
	page := ""
	latest := revision{
		Revision: "",
		Modified: time.Time{},
	}

	for {
		call := drive.NewRevisionsService(gdrive).List(fileId)
		if page != "" {
			call.PageToken(page)
		}

		revisions, err := call.Context(ctx).Do()
		if err != nil {
			return nil, err
		}

		for _, r := range revisions.Revisions {
			datetime, err := time.Parse("2006-01-02T15:04:05.999Z", r.ModifiedTime)
			if err != nil {
				return nil, err
			}

			if latest.Modified.Before(datetime) {
				latest.Revision = r.Id
				latest.Modified = datetime
			}
		}

		if page = revisions.NextPageToken; page == "" {
			break
		}
	}

	if latest.Modified.IsZero() {
		return nil, fmt.Errorf("unable to identify latest revision for file ID %s", fileId)
	}

	return &latest, nil
}

func revisionPath(workdir, fileId string) string {
	return filepath.Join(workdir, fmt.Sprintf("%s.revision", fileId))
}

// cachedRevision reads the revision recorded by the previous run. A missing
// or unreadable file just means 'no previous run'.
func cachedRevision(workdir, fileId string) *revision {
	bytes, err := os.ReadFile(revisionPath(workdir, fileId))
	if err != nil {
		return nil
	}

	cached := revision{}
	if err := json.Unmarshal(bytes, &cached); err != nil {
		return nil
	}

	return &cached
}

func storeRevision(workdir, fileId string, r *revision) error {
	if err := os.MkdirAll(workdir, 0770); err != nil {
		return err
	}

	bytes, err := json.Marshal(r)
	if err != nil {
		return err
	}

	return os.WriteFile(revisionPath(workdir, fileId), bytes, 0660)
}
