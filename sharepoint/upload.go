package sharepoint

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strings"
)

// Upload stores a local file in the configured document library folder,
// overwriting any previous copy.
func (c *Client) Upload(ctx context.Context, path, name string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("unable to read %s (%v)", path, err)
	}

	endpoint := fmt.Sprintf("%s/_api/web/GetFolderByServerRelativeUrl('%s')/Files/add(url='%s',overwrite=true)",
		c.site,
		escapePath(c.folder),
		escapePath(name))

	rq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(content))
	if err != nil {
		return err
	}

	rq.Header.Set("Accept", "application/json;odata=nometadata")
	rq.Header.Set("Content-Type", "application/octet-stream")

	response, err := c.http.Do(rq)
	if err != nil {
		return fmt.Errorf("upload request failed (%v)", err)
	}

	defer response.Body.Close()

	if response.StatusCode != http.StatusOK && response.StatusCode != http.StatusCreated {
		return apiError(response.StatusCode, drain(response.Body))
	}

	return nil
}

// escapePath escapes a server-relative path for use inside the quoted
// argument of a REST call, preserving path separators and doubling single
// quotes per OData.
func escapePath(path string) string {
	segments := strings.Split(strings.ReplaceAll(path, "'", "''"), "/")
	for i, segment := range segments {
		segments[i] = url.PathEscape(segment)
	}

	return strings.Join(segments, "/")
}
