package loadtest

import (
	"errors"
	"fmt"

	"github.com/mergington/activities/internal/domain/types"
)

// verifyOutcomes checks the response tallies. Each student's first signup
// must succeed and the duplicate must be rejected; every unregister must
// succeed.
func verifyOutcomes(stats *Stats, removed int) error {
	var errs []error
	if stats.Signups.OK != stats.Students {
		errs = append(errs, fmt.Errorf("signups accepted %d, want %d", stats.Signups.OK, stats.Students))
	}
	if stats.Signups.Rejected != stats.Students {
		errs = append(errs, fmt.Errorf("duplicate signups rejected %d, want %d", stats.Signups.Rejected, stats.Students))
	}
	if stats.Unregister.OK != removed {
		errs = append(errs, fmt.Errorf("unregisters accepted %d, want %d", stats.Unregister.OK, removed))
	}
	if n := stats.Signups.Failed + stats.Unregister.Failed; n > 0 {
		errs = append(errs, fmt.Errorf("%d requests failed", n))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrVerification, errors.Join(errs...))
	}
	return nil
}

// verifyRosters checks the final directory: kept students appear exactly
// once, removed students are absent, and no roster holds a duplicate.
func verifyRosters(after types.Directory, kept, removed []Assignment) error {
	var errs []error

	for name, a := range after {
		seen := make(map[string]struct{}, len(a.Participants))
		for _, email := range a.Participants {
			if _, dup := seen[email]; dup {
				errs = append(errs, fmt.Errorf("%s: duplicate participant %s", name, email))
			}
			seen[email] = struct{}{}
		}
	}

	for _, s := range kept {
		a, ok := after[s.Activity]
		if !ok {
			errs = append(errs, fmt.Errorf("%s: activity missing", s.Activity))
			continue
		}
		if !a.Has(s.Email) {
			errs = append(errs, fmt.Errorf("%s: missing participant %s", s.Activity, s.Email))
		}
	}

	for _, s := range removed {
		if a, ok := after[s.Activity]; ok && a.Has(s.Email) {
			errs = append(errs, fmt.Errorf("%s: unregistered participant %s still present", s.Activity, s.Email))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrVerification, errors.Join(errs...))
	}
	return nil
}
