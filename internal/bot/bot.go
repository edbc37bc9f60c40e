// Package bot routes LINE webhook events to the investment features:
// text commands, screenshot parsing, onboarding postbacks.
package bot

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/pladee42/opes-ai/internal/clients/gemini"
	"github.com/pladee42/opes-ai/internal/clients/line"
	"github.com/pladee42/opes-ai/internal/domain"
	"github.com/pladee42/opes-ai/internal/modules/portfolio"
	"github.com/pladee42/opes-ai/internal/modules/rebalance"
	"github.com/pladee42/opes-ai/pkg/flex"
)

// Messenger sends replies and fetches content from the chat platform
type Messenger interface {
	ReplyText(ctx context.Context, replyToken, text string) error
	ReplyFlex(ctx context.Context, replyToken, altText string, contents map[string]interface{}) error
	GetProfile(ctx context.Context, userID string) (*line.Profile, error)
	GetMessageContent(ctx context.Context, messageID string) ([]byte, error)
}

// Vision extracts transaction fields from trading-app screenshots
type Vision interface {
	ParseTransactionImage(ctx context.Context, imageBytes []byte) (*gemini.ParsedTransaction, error)
}

// UserService manages registration and plan settings
type UserService interface {
	Get(ctx context.Context, userID string) (*domain.User, error)
	GetOrCreate(ctx context.Context, userID, displayName string) (*domain.User, error)
	SetMonthlyBudget(ctx context.Context, userID string, budget int) error
	SetOnboardingStatus(ctx context.Context, userID, status string) error
}

// Planner computes DCA plans and drift reports
type Planner interface {
	MonthlyPlan(ctx context.Context, userID string) (*rebalance.DCAResult, error)
	DriftReport(ctx context.Context, userID string) (*rebalance.DriftResult, error)
}

// PortfolioViewer values a user's holdings
type PortfolioViewer interface {
	Valuation(ctx context.Context, userID string) (*portfolio.Snapshot, error)
}

// TransactionStore records parsed transactions
type TransactionStore interface {
	Append(ctx context.Context, tx *domain.Transaction) (string, error)
}

// RateSource supplies the USD/THB exchange rate
type RateSource interface {
	USDTHBRate(ctx context.Context) float64
}

// Dispatcher routes webhook events to their handlers
type Dispatcher struct {
	messenger    Messenger
	vision       Vision
	users        UserService
	planner      Planner
	portfolio    PortfolioViewer
	transactions TransactionStore
	fx           RateSource
	log          zerolog.Logger
}

// NewDispatcher creates a new event dispatcher
func NewDispatcher(
	messenger Messenger,
	vision Vision,
	users UserService,
	planner Planner,
	portfolioSvc PortfolioViewer,
	transactions TransactionStore,
	fx RateSource,
	log zerolog.Logger,
) *Dispatcher {
	return &Dispatcher{
		messenger:    messenger,
		vision:       vision,
		users:        users,
		planner:      planner,
		portfolio:    portfolioSvc,
		transactions: transactions,
		fx:           fx,
		log:          log.With().Str("service", "bot").Logger(),
	}
}

// Dispatch handles a single webhook event. Handler errors are logged,
// not returned: the webhook must always acknowledge with 200 or the
// platform retries the whole delivery.
func (d *Dispatcher) Dispatch(ctx context.Context, event line.Event) {
	var err error

	switch event.Type {
	case line.EventTypeMessage:
		err = d.handleMessage(ctx, event)
	case line.EventTypeFollow:
		err = d.handleFollow(ctx, event)
	case line.EventTypeUnfollow:
		d.log.Info().Str("user_id", event.Source.UserID).Msg("User unfollowed")
	case line.EventTypePostback:
		err = d.handlePostback(ctx, event)
	default:
		d.log.Debug().Str("type", event.Type).Msg("Ignoring unsupported event type")
	}

	if err != nil {
		d.log.Error().
			Err(err).
			Str("type", event.Type).
			Str("user_id", event.Source.UserID).
			Msg("Event handling failed")
	}
}

func (d *Dispatcher) handleMessage(ctx context.Context, event line.Event) error {
	if event.Message == nil {
		return nil
	}

	switch event.Message.Type {
	case line.MessageTypeText:
		return d.handleTextCommand(ctx, event)
	case line.MessageTypeImage:
		return d.handleImage(ctx, event)
	default:
		return d.messenger.ReplyText(ctx, event.ReplyToken,
			"ส่งข้อความหรือรูปหน้าจอการซื้อขายมาได้เลยครับ 📸")
	}
}

func (d *Dispatcher) handleFollow(ctx context.Context, event line.Event) error {
	userID := event.Source.UserID

	displayName := "นักลงทุน"
	if profile, err := d.messenger.GetProfile(ctx, userID); err == nil {
		displayName = profile.DisplayName
	} else {
		d.log.Warn().Err(err).Str("user_id", userID).Msg("Profile fetch failed")
	}

	existing, err := d.users.Get(ctx, userID)
	if err != nil {
		return err
	}

	if existing != nil {
		return d.messenger.ReplyFlex(ctx, event.ReplyToken, "ยินดีต้อนรับกลับ!",
			flex.WelcomeBackMessage(existing.DisplayName))
	}

	if _, err := d.users.GetOrCreate(ctx, userID, displayName); err != nil {
		return err
	}

	d.log.Info().Str("user_id", userID).Msg("New user registered")
	return d.messenger.ReplyFlex(ctx, event.ReplyToken, "ยินดีต้อนรับ!",
		flex.WelcomeMessage(displayName))
}
