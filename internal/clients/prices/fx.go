package prices

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"
)

// FallbackUSDTHB is used when the exchange-rate API is unreachable and
// no cached rate exists. A slightly stale or approximate rate is better
// than refusing to answer the user at all.
const FallbackUSDTHB = 35.0

// fxCacheTTL is how long fetched rates stay fresh
const fxCacheTTL = time.Hour

type ratesResponse struct {
	Rates map[string]float64 `json:"rates"`
}

// FXService fetches USD-based exchange rates with a TTL cache.
// The clock is injected so tests control cache expiry.
type FXService struct {
	client *resty.Client
	url    string
	now    func() time.Time
	log    zerolog.Logger

	mu        sync.Mutex
	rates     map[string]float64
	fetchedAt time.Time
}

// NewFXService creates a new FX rate service
func NewFXService(url string, log zerolog.Logger) *FXService {
	return &FXService{
		client: resty.New().SetTimeout(10 * time.Second),
		url:    url,
		now:    time.Now,
		log:    log.With().Str("client", "fx").Logger(),
	}
}

// WithClock overrides the time source, used by tests
func (s *FXService) WithClock(now func() time.Time) *FXService {
	s.now = now
	return s
}

// USDTHBRate returns the current USD to THB exchange rate. Falls back
// to a stale cached rate, then to FallbackUSDTHB, when the API fails.
func (s *FXService) USDTHBRate(ctx context.Context) float64 {
	rates := s.exchangeRates(ctx)
	if rate, ok := rates["THB"]; ok && rate > 0 {
		return rate
	}

	s.log.Warn().Float64("rate", FallbackUSDTHB).Msg("Using fallback USD/THB rate")
	return FallbackUSDTHB
}

// ConvertToTHB converts an amount in the given currency to THB. Unknown
// currencies come back unchanged with a warning, matching the lenient
// boundary policy: the calculators never see a hard failure from here.
func (s *FXService) ConvertToTHB(ctx context.Context, amount float64, currency string) float64 {
	currency = strings.ToUpper(strings.TrimSpace(currency))

	switch currency {
	case "THB":
		return amount
	case "USD":
		return amount * s.USDTHBRate(ctx)
	}

	rates := s.exchangeRates(ctx)
	if rate, ok := rates[currency]; ok && rate > 0 {
		usd := amount / rate
		thb, ok := rates["THB"]
		if !ok || thb <= 0 {
			thb = FallbackUSDTHB
		}
		return usd * thb
	}

	s.log.Warn().Str("currency", currency).Msg("Unknown currency, returning amount unconverted")
	return amount
}

// Refresh forces a rate fetch, bypassing the cache TTL. The scheduler
// calls this hourly so chat replies hit a warm cache.
func (s *FXService) Refresh(ctx context.Context) error {
	rates, err := s.fetch(ctx)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.rates = rates
	s.fetchedAt = s.now()
	s.mu.Unlock()

	return nil
}

func (s *FXService) exchangeRates(ctx context.Context) map[string]float64 {
	s.mu.Lock()
	if s.rates != nil && s.now().Sub(s.fetchedAt) < fxCacheTTL {
		rates := s.rates
		s.mu.Unlock()
		return rates
	}
	stale := s.rates
	s.mu.Unlock()

	rates, err := s.fetch(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("Failed to fetch exchange rates")
		// Stale beats nothing
		return stale
	}

	s.mu.Lock()
	s.rates = rates
	s.fetchedAt = s.now()
	s.mu.Unlock()

	s.log.Info().Float64("usd_thb", rates["THB"]).Msg("Exchange rates updated")
	return rates
}

func (s *FXService) fetch(ctx context.Context) (map[string]float64, error) {
	var body ratesResponse

	resp, err := s.client.R().
		SetContext(ctx).
		SetResult(&body).
		Get(s.url)
	if err != nil {
		return nil, fmt.Errorf("exchange rate request failed: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("exchange rate API returned %s", resp.Status())
	}
	if len(body.Rates) == 0 {
		return nil, fmt.Errorf("exchange rate API returned no rates")
	}

	return body.Rates, nil
}
