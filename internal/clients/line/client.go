package line

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"
)

const (
	defaultAPIBase     = "https://api.line.me"
	defaultDataAPIBase = "https://api-data.line.me"
)

// Client talks to the LINE Messaging API
type Client struct {
	http        *resty.Client
	dataHTTP    *resty.Client
	accessToken string
	log         zerolog.Logger
}

// NewClient creates a new LINE Messaging API client
func NewClient(accessToken string, log zerolog.Logger) *Client {
	return &Client{
		http: resty.New().
			SetBaseURL(defaultAPIBase).
			SetAuthToken(accessToken).
			SetTimeout(15 * time.Second),
		dataHTTP: resty.New().
			SetBaseURL(defaultDataAPIBase).
			SetAuthToken(accessToken).
			SetTimeout(30 * time.Second),
		accessToken: accessToken,
		log:         log.With().Str("client", "line").Logger(),
	}
}

// SetBaseURLs overrides API endpoints, used by tests
func (c *Client) SetBaseURLs(apiBase, dataBase string) *Client {
	c.http.SetBaseURL(apiBase)
	c.dataHTTP.SetBaseURL(dataBase)
	return c
}

type textMessage struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type flexMessage struct {
	Type     string                 `json:"type"`
	AltText  string                 `json:"altText"`
	Contents map[string]interface{} `json:"contents"`
}

type replyRequest struct {
	ReplyToken string        `json:"replyToken"`
	Messages   []interface{} `json:"messages"`
}

// ReplyText replies to an event with a plain text message
func (c *Client) ReplyText(ctx context.Context, replyToken, text string) error {
	return c.reply(ctx, replyRequest{
		ReplyToken: replyToken,
		Messages:   []interface{}{textMessage{Type: "text", Text: text}},
	})
}

// ReplyFlex replies to an event with a flex message
func (c *Client) ReplyFlex(ctx context.Context, replyToken, altText string, contents map[string]interface{}) error {
	return c.reply(ctx, replyRequest{
		ReplyToken: replyToken,
		Messages: []interface{}{flexMessage{
			Type:     "flex",
			AltText:  altText,
			Contents: contents,
		}},
	})
}

func (c *Client) reply(ctx context.Context, body replyRequest) error {
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(body).
		Post("/v2/bot/message/reply")
	if err != nil {
		return fmt.Errorf("reply request failed: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("reply rejected with %s: %s", resp.Status(), resp.String())
	}
	return nil
}

// GetProfile fetches a user's LINE profile
func (c *Client) GetProfile(ctx context.Context, userID string) (*Profile, error) {
	var profile Profile

	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&profile).
		Get("/v2/bot/profile/" + userID)
	if err != nil {
		return nil, fmt.Errorf("profile request failed: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("profile request rejected with %s", resp.Status())
	}

	return &profile, nil
}

// GetMessageContent downloads binary message content (images)
func (c *Client) GetMessageContent(ctx context.Context, messageID string) ([]byte, error) {
	resp, err := c.dataHTTP.R().
		SetContext(ctx).
		Get(fmt.Sprintf("/v2/bot/message/%s/content", messageID))
	if err != nil {
		return nil, fmt.Errorf("content download failed: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("content download rejected with %s", resp.Status())
	}

	return resp.Body(), nil
}
