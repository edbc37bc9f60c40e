package scheduler

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// RateRefresher forces a fresh exchange-rate fetch
type RateRefresher interface {
	Refresh(ctx context.Context) error
}

// FXRefreshJob keeps the exchange-rate cache warm so chat replies never
// wait on the rate API.
type FXRefreshJob struct {
	fx  RateRefresher
	log zerolog.Logger
}

// NewFXRefreshJob creates a new FX refresh job
func NewFXRefreshJob(fx RateRefresher, log zerolog.Logger) *FXRefreshJob {
	return &FXRefreshJob{
		fx:  fx,
		log: log.With().Str("job", "fx_refresh").Logger(),
	}
}

// Name returns the job name
func (j *FXRefreshJob) Name() string {
	return "fx_refresh"
}

// Run fetches fresh exchange rates
func (j *FXRefreshJob) Run() error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := j.fx.Refresh(ctx); err != nil {
		// Not fatal: the service falls back to its cached or default rate
		j.log.Warn().Err(err).Msg("Rate refresh failed, cache kept as is")
		return err
	}

	j.log.Debug().Msg("Exchange rates refreshed")
	return nil
}
