package infra

import (
	"context"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/cockroachdb/errors"
	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/trilytx/trilytx-backend/utils"
)

const (
	GOOGLE_METADATA_URL_PROJECT_ID = "http://metadata.google.internal/computeMetadata/v1/project/project-id"
	PROJECT_ID_KEY                 = "project_id"
)

// The project id does not change during the lifetime of the application
var PROJECT_ID_CACHE = expirable.NewLRU[string, string](1, nil, 0)

// GetProjectId asks the GCP metadata server for the current project id. Outside of GCP it returns
// an empty string and no error.
func GetProjectId(ctx context.Context) (string, error) {
	if projectId, exists := PROJECT_ID_CACHE.Get(PROJECT_ID_KEY); exists {
		return projectId, nil
	}

	var projectId string

	err := retry.Do(
		func() error {
			var err error
			projectId, err = getProjectIdFromMetadataServer(ctx)
			return err
		},
		retry.Context(ctx),
		retry.Attempts(3),
		retry.LastErrorOnly(true),
		retry.Delay(100*time.Millisecond),
	)
	if err != nil {
		return "", err
	}

	if projectId != "" {
		PROJECT_ID_CACHE.Add(PROJECT_ID_KEY, projectId)
	}
	return projectId, nil
}

func getProjectIdFromMetadataServer(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, GOOGLE_METADATA_URL_PROJECT_ID, nil)
	if err != nil {
		return "", retry.Unrecoverable(err)
	}
	req.Header.Add("Metadata-Flavor", "Google")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		// expected outside of a GCP VM, the url is google internal
		utils.LoggerFromContext(ctx).DebugContext(ctx, "could not connect to google cloud metadata server")
		return "", nil
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusOK {
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return "", err
		}
		return strings.TrimSpace(string(body)), nil
	}

	return "", errors.Newf("unexpected status code from google cloud metadata server: %d", resp.StatusCode)
}
