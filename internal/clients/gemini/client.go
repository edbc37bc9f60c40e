package gemini

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"
)

const defaultAPIBase = "https://generativelanguage.googleapis.com"

// ErrUnparseable is returned when the model output cannot be turned
// into a usable transaction
var ErrUnparseable = errors.New("screenshot could not be parsed")

// parseTransactionPrompt instructs the vision model to extract the
// fields of a trade screenshot as bare JSON.
const parseTransactionPrompt = `You are a financial transaction parser. Analyze this screenshot from a trading app and extract the transaction details.

The screenshot is from either:
1. **Dime!** - A Thai app for US stocks and gold trading
2. **Binance** - A crypto exchange

Extract the following information and return ONLY a valid JSON object (no markdown, no explanation):

{
    "source_app": "Dime" or "Binance",
    "asset": "The asset symbol (e.g., XAUUSD for gold, AAPL for Apple stock, BTC for Bitcoin)",
    "side": "BUY" or "SELL",
    "amount": <number - the quantity purchased/sold>,
    "price": <number - the price per unit>,
    "total_thb": <number - total value in THB if shown, otherwise calculate>,
    "date": "YYYY-MM-DD format if visible, otherwise null",
    "confidence": "high", "medium", or "low"
}

Rules:
- For Dime! gold trades, the asset is usually "XAUUSD" or "Gold"
- For Dime! stock trades, extract the stock ticker symbol
- For Binance, extract the crypto symbol (BTC, ETH, etc.)
- If you cannot determine a field with certainty, use null
- Always return valid JSON only, no other text`

var codeFencePattern = regexp.MustCompile("```(?:json)?\\s*([\\s\\S]*?)\\s*```")

// Client calls the Gemini generateContent API for vision parsing
type Client struct {
	http   *resty.Client
	apiKey string
	model  string
	log    zerolog.Logger
}

// NewClient creates a new Gemini client
func NewClient(apiKey, model string, log zerolog.Logger) *Client {
	return &Client{
		http: resty.New().
			SetBaseURL(defaultAPIBase).
			SetTimeout(60 * time.Second),
		apiKey: apiKey,
		model:  model,
		log:    log.With().Str("client", "gemini").Logger(),
	}
}

// SetBaseURL overrides the API endpoint, used by tests
func (c *Client) SetBaseURL(base string) *Client {
	c.http.SetBaseURL(base)
	return c
}

// ParseTransactionImage sends a screenshot to the vision model and
// returns the extracted transaction fields.
func (c *Client) ParseTransactionImage(ctx context.Context, imageBytes []byte) (*ParsedTransaction, error) {
	req := generateRequest{
		Contents: []content{{
			Parts: []part{
				{Text: parseTransactionPrompt},
				{InlineData: &inlineData{
					MimeType: "image/jpeg",
					Data:     base64.StdEncoding.EncodeToString(imageBytes),
				}},
			},
		}},
		GenerationConfig: &generationConfig{
			// Low temperature for consistent parsing
			Temperature:     0.1,
			MaxOutputTokens: 500,
		},
	}

	var body generateResponse

	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("key", c.apiKey).
		SetBody(req).
		SetResult(&body).
		Post(fmt.Sprintf("/v1beta/models/%s:generateContent", c.model))
	if err != nil {
		return nil, fmt.Errorf("gemini request failed: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("gemini returned %s: %s", resp.Status(), resp.String())
	}

	if len(body.Candidates) == 0 || len(body.Candidates[0].Content.Parts) == 0 {
		return nil, ErrUnparseable
	}

	parsed, err := decodeTransaction(body.Candidates[0].Content.Parts[0].Text)
	if err != nil {
		c.log.Warn().Err(err).Msg("Vision output rejected")
		return nil, err
	}

	return parsed, nil
}

// decodeTransaction extracts the JSON object from model output, which
// may be wrapped in markdown code fences, and validates required fields.
func decodeTransaction(text string) (*ParsedTransaction, error) {
	text = strings.TrimSpace(text)

	if match := codeFencePattern.FindStringSubmatch(text); match != nil {
		text = match[1]
	}

	var parsed ParsedTransaction
	if err := json.Unmarshal([]byte(text), &parsed); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnparseable, err)
	}

	if parsed.SourceApp == "" || parsed.Asset == "" || parsed.Side == "" || parsed.Amount == 0 {
		return nil, fmt.Errorf("%w: missing required fields", ErrUnparseable)
	}

	return &parsed, nil
}
