package services

import (
	"context"
	"fmt"
	"time"

	"github.com/helixdash/helixdash/internal/api"
	"github.com/helixdash/helixdash/internal/query"
)

// PRSService fetches polygenic risk scores through the query layer.
type PRSService struct {
	client api.Client
	runner *query.Runner
}

func NewPRSService(client api.Client, runner *query.Runner) *PRSService {
	return &PRSService{client: client, runner: runner}
}

// Scores returns the user's risk scores. Single-object responses are
// normalized to a one-element slice by the transport layer.
func (s *PRSService) Scores(ctx context.Context, userID string) ([]api.RiskScore, error) {
	opts := query.Options{Enabled: userID != "", Retry: 2, StaleAfter: 5 * time.Minute}
	scores, err := query.Fetch(ctx, s.runner, "prs/scores/"+userID, opts, func(ctx context.Context) ([]api.RiskScore, error) {
		return s.client.RiskScores(ctx, userID)
	})
	if err != nil {
		return nil, fmt.Errorf("fetch risk scores: %w", err)
	}
	return scores, nil
}
