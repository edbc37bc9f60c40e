package prices

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"

	"github.com/pladee42/opes-ai/internal/domain"
)

// goldYahooSymbol is the gold spot future used to price GOLD holdings
const goldYahooSymbol = "GC=F"

// Config holds market data endpoint URLs
type Config struct {
	YahooQuoteURL    string
	BinanceTickerURL string
}

// Client fetches live asset prices. Stocks and gold come from the Yahoo
// chart API in USD, crypto from the Binance USDT ticker; everything is
// converted to THB before it reaches the calculators.
type Client struct {
	http *resty.Client
	cfg  Config
	fx   *FXService
	log  zerolog.Logger
}

// NewClient creates a new price client
func NewClient(cfg Config, fx *FXService, log zerolog.Logger) *Client {
	return &Client{
		http: resty.New().SetTimeout(15 * time.Second),
		cfg:  cfg,
		fx:   fx,
		log:  log.With().Str("client", "prices").Logger(),
	}
}

// AssetPriceTHB returns the current THB price for one unit of the asset.
// Asset type routes the lookup; an error means the price is unavailable
// and the caller decides whether to degrade.
func (c *Client) AssetPriceTHB(ctx context.Context, asset string, assetType domain.AssetType) (float64, error) {
	var (
		priceUSD float64
		err      error
	)

	switch assetType {
	case domain.AssetTypeCrypto:
		priceUSD, err = c.binancePriceUSD(ctx, asset)
	case domain.AssetTypeGold:
		priceUSD, err = c.yahooPriceUSD(ctx, goldYahooSymbol)
	default:
		priceUSD, err = c.yahooPriceUSD(ctx, asset)
	}
	if err != nil {
		return 0, err
	}

	return priceUSD * c.fx.USDTHBRate(ctx), nil
}

type binanceTicker struct {
	Symbol string `json:"symbol"`
	Price  string `json:"price"`
}

func (c *Client) binancePriceUSD(ctx context.Context, asset string) (float64, error) {
	var ticker binanceTicker

	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("symbol", asset+"USDT").
		SetResult(&ticker).
		Get(c.cfg.BinanceTickerURL)
	if err != nil {
		return 0, fmt.Errorf("binance ticker request failed: %w", err)
	}
	if resp.IsError() {
		return 0, fmt.Errorf("binance ticker returned %s for %s", resp.Status(), asset)
	}

	var price float64
	if _, err := fmt.Sscanf(ticker.Price, "%f", &price); err != nil || price <= 0 {
		return 0, fmt.Errorf("binance returned unparseable price %q for %s", ticker.Price, asset)
	}

	return price, nil
}

type yahooChartResponse struct {
	Chart struct {
		Result []struct {
			Meta struct {
				RegularMarketPrice float64 `json:"regularMarketPrice"`
			} `json:"meta"`
		} `json:"result"`
		Error interface{} `json:"error"`
	} `json:"chart"`
}

func (c *Client) yahooPriceUSD(ctx context.Context, symbol string) (float64, error) {
	var body yahooChartResponse

	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&body).
		Get(fmt.Sprintf("%s/%s", c.cfg.YahooQuoteURL, symbol))
	if err != nil {
		return 0, fmt.Errorf("yahoo chart request failed: %w", err)
	}
	if resp.IsError() {
		return 0, fmt.Errorf("yahoo chart returned %s for %s", resp.Status(), symbol)
	}

	if len(body.Chart.Result) == 0 {
		return 0, fmt.Errorf("yahoo chart returned no result for %s", symbol)
	}

	price := body.Chart.Result[0].Meta.RegularMarketPrice
	if price <= 0 {
		return 0, fmt.Errorf("yahoo chart returned no price for %s", symbol)
	}

	return price, nil
}
