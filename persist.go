package copycheck

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrNoCMS is returned by PersistResult when no CMS client is configured.
var ErrNoCMS = errors.New("copycheck: no CMS client configured")

// PersistResult writes a check verdict onto the content record addressed by
// its stable document identifier. It records the status, the raw result
// payload, violations, warnings, fingerprint, provider and check timestamp.
//
// Persistence is the only CMS write in a check's lifecycle and is attempted
// exactly once: failures surface to the caller as-is, with no retry — the
// caller decides whether a persistence failure is fatal to the upload flow.
func (cfg *Config) PersistResult(ctx context.Context, documentID string, res *CheckResult) error {
	cfg.defaults()

	if cfg.CMS == nil {
		return ErrNoCMS
	}

	payload := map[string]any{
		"copyright_status":       res.Status.String(),
		"copyright_check_result": res,
		"copyright_violations":   res.Violations,
		"copyright_warnings":     res.Warnings,
		"copyright_fingerprint":  res.Fingerprint,
		"copyright_provider":     res.Provider,
		"copyright_checked_at":   time.Now().UTC().Format(time.RFC3339),
	}

	if _, err := cfg.CMS.Update(ctx, cfg.ContentCollection, documentID, payload); err != nil {
		return fmt.Errorf("copycheck: persist result for %s: %w", documentID, err)
	}
	return nil
}
