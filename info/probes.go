package info

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"github.com/drblury/etlweaver/probe"
)

type probePayload struct {
	Status string `json:"status"`
}

func (h *Handler) respondProbe(w http.ResponseWriter, r *http.Request, state string) {
	h.RespondWithJSON(w, r, http.StatusOK, probePayload{Status: state})
}

// runChecks runs checks concurrently under one deadline. Failures are joined
// in registration order so the message is stable between calls.
func (h *Handler) runChecks(ctx context.Context, checks []probe.Func) error {
	if len(checks) == 0 {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, h.probeTimeout)
	defer cancel()

	failures := make([]error, len(checks))
	var wg sync.WaitGroup
	for i, check := range checks {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := check(ctx); err != nil {
				failures[i] = h.probeFailure(i, err)
			}
		}()
	}
	wg.Wait()

	return errors.Join(failures...)
}

func (h *Handler) probeFailure(i int, err error) error {
	n := i + 1
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("probe %d timed out after %s", n, h.probeTimeout)
	case errors.Is(err, context.Canceled):
		return fmt.Errorf("probe %d was cancelled", n)
	default:
		return fmt.Errorf("probe %d failed: %w", n, err)
	}
}

func compactChecks(checks []probe.Func) []probe.Func {
	var out []probe.Func
	for _, check := range checks {
		if check != nil {
			out = append(out, check)
		}
	}
	return out
}
