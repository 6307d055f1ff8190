// Package flags provides the feature-flag registry gating workflow steps.
package flags

import (
	"context"
	"errors"
	"log/slog"

	"github.com/RMF112018/project-controls/pkg/persistence"
)

// FailOpenUnknownFlag is the deliberate policy for flag names the registry does
// not know: the gated step is treated as enabled so a missing flag definition can
// never make an approval chain disappear.
const FailOpenUnknownFlag = true

// Registry answers enabled/disabled for workflow-step feature flags.
type Registry struct {
	repo   persistence.FeatureFlagRepository
	logger *slog.Logger
}

// NewRegistry creates a flag registry over the given repository.
func NewRegistry(repo persistence.FeatureFlagRepository, logger *slog.Logger) *Registry {
	return &Registry{repo: repo, logger: logger}
}

// Enabled reports whether the named flag is on. Unknown names follow
// FailOpenUnknownFlag; repository faults also fail open so a flaky flag store
// degrades to "everything gated stays visible" rather than breaking resolution.
func (r *Registry) Enabled(ctx context.Context, name string) bool {
	flag, err := r.repo.ByName(ctx, name)
	if err != nil {
		if !errors.Is(err, persistence.ErrFlagNotFound) {
			r.logger.WarnContext(ctx, "feature flag lookup failed", "flag", name, "error", err)
		}

		return FailOpenUnknownFlag
	}

	return flag.Enabled
}
