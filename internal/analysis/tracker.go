// Package analysis tracks server-side analysis job progress. Steps advance
// only on server-reported transitions obtained by polling the job-status
// endpoint — never on local timers.
package analysis

import (
	"context"
	"time"

	"github.com/helixdash/helixdash/internal/api"
	"github.com/helixdash/helixdash/internal/logging"
)

// Snapshot is one observed state of a job. Err is set when a poll failed;
// polling continues after transient errors until the context is done.
type Snapshot struct {
	Steps []api.JobStep
	Done  bool
	Err   error
}

// StatusClient is the slice of the transport the tracker needs.
type StatusClient interface {
	AnalysisStatus(ctx context.Context, analysisID string) (*api.JobStatus, error)
}

// Tracker polls an analysis job and emits snapshots whenever the
// server-reported step states change.
type Tracker struct {
	client   StatusClient
	interval time.Duration
	log      logging.Logger
}

func NewTracker(client StatusClient, interval time.Duration, log logging.Logger) *Tracker {
	if interval <= 0 {
		interval = 2 * time.Second
	}
	if log == nil {
		log = logging.Nop()
	}
	return &Tracker{client: client, interval: interval, log: log}
}

// Watch polls analysisID until the job reports done, a step reports an error
// status, or ctx is canceled. The returned channel is closed when watching
// stops; an immediate first poll precedes the ticker.
func (t *Tracker) Watch(ctx context.Context, analysisID string) <-chan Snapshot {
	out := make(chan Snapshot, 1)

	go func() {
		defer close(out)

		ticker := time.NewTicker(t.interval)
		defer ticker.Stop()

		var lastFingerprint string

		for {
			status, err := t.client.AnalysisStatus(ctx, analysisID)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				t.log.Warn(ctx, "analysis status poll failed", "analysis", analysisID, "err", err)
				if !emit(ctx, out, Snapshot{Err: err}) {
					return
				}
			} else {
				fp := fingerprint(status)
				if fp != lastFingerprint {
					lastFingerprint = fp
					if !emit(ctx, out, Snapshot{Steps: status.Steps, Done: status.Done}) {
						return
					}
				}
				if status.Done || hasFailed(status.Steps) {
					return
				}
			}

			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
		}
	}()

	return out
}

func emit(ctx context.Context, out chan<- Snapshot, s Snapshot) bool {
	select {
	case out <- s:
		return true
	case <-ctx.Done():
		return false
	}
}

func hasFailed(steps []api.JobStep) bool {
	for _, s := range steps {
		if s.Status == api.StepError {
			return true
		}
	}
	return false
}

// fingerprint condenses the step states so unchanged polls are not re-emitted.
func fingerprint(status *api.JobStatus) string {
	s := ""
	for _, step := range status.Steps {
		s += step.ID + "=" + step.Status + ";"
	}
	if status.Done {
		s += "done"
	}
	return s
}
