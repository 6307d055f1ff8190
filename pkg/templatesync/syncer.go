package templatesync

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/RMF112018/project-controls/pkg/models"
)

const defaultSyncTimeout = 30 * time.Second

// HTTPSyncer pushes the template record to the site-provisioning endpoint as a
// JSON document. A non-2xx response fails the sync.
type HTTPSyncer struct {
	endpoint string
	client   *http.Client
}

// NewHTTPSyncer creates a syncer posting to the given provisioning endpoint.
func NewHTTPSyncer(endpoint string) *HTTPSyncer {
	return &HTTPSyncer{
		endpoint: endpoint,
		client: &http.Client{
			Timeout: defaultSyncTimeout,
		},
	}
}

func (s *HTTPSyncer) Sync(ctx context.Context, template *models.SharedTemplate) error {
	body, err := json.Marshal(template)
	if err != nil {
		return fmt.Errorf("failed to encode template %s: %w", template.ID, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build provisioning request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("provisioning request failed: %w", err)
	}

	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("provisioning endpoint returned status %d", resp.StatusCode)
	}

	return nil
}

// LogSyncer records the sync without contacting an external system. It is the
// default when no provisioning endpoint is configured.
type LogSyncer struct {
	logger *slog.Logger
}

// NewLogSyncer creates a syncer that only logs the operation.
func NewLogSyncer(logger *slog.Logger) *LogSyncer {
	return &LogSyncer{logger: logger}
}

func (s *LogSyncer) Sync(ctx context.Context, template *models.SharedTemplate) error {
	s.logger.InfoContext(ctx, "Synchronized template registry entry",
		"template_id", template.ID,
		"template_site", template.TemplateSiteURL,
	)

	return nil
}
