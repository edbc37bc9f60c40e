package bot

import (
	"context"
	"errors"
	"strings"

	"github.com/pladee42/opes-ai/internal/clients/gemini"
	"github.com/pladee42/opes-ai/internal/clients/line"
	"github.com/pladee42/opes-ai/internal/domain"
	"github.com/pladee42/opes-ai/internal/modules/rebalance"
	"github.com/pladee42/opes-ai/pkg/flex"
)

// handleImage runs the screenshot pipeline: download, vision parse,
// label canonicalization, persist, confirm.
func (d *Dispatcher) handleImage(ctx context.Context, event line.Event) error {
	userID := event.Source.UserID

	imageBytes, err := d.messenger.GetMessageContent(ctx, event.Message.ID)
	if err != nil {
		d.log.Error().Err(err).Str("message_id", event.Message.ID).Msg("Image download failed")
		return d.messenger.ReplyFlex(ctx, event.ReplyToken, "เกิดข้อผิดพลาด",
			flex.ErrorMessage("โหลดรูปไม่สำเร็จ", "ลองส่งรูปใหม่อีกครั้งนะครับ"))
	}

	parsed, err := d.vision.ParseTransactionImage(ctx, imageBytes)
	if errors.Is(err, gemini.ErrUnparseable) {
		return d.messenger.ReplyFlex(ctx, event.ReplyToken, "อ่านรูปไม่ออก",
			flex.ErrorMessage("อ่านรูปไม่ออก 😅",
				"ขอรูปหน้าจอคำสั่งซื้อขายจาก Dime! หรือ Binance ที่เห็นตัวเลขชัดๆ นะครับ"))
	}
	if err != nil {
		d.log.Error().Err(err).Str("user_id", userID).Msg("Vision parse failed")
		return d.messenger.ReplyFlex(ctx, event.ReplyToken, "เกิดข้อผิดพลาด",
			flex.ErrorMessage("ประมวลผลรูปไม่สำเร็จ", "ลองใหม่อีกครั้งในอีกสักครู่นะครับ"))
	}

	// Register on first contact so screenshots work before onboarding
	if _, err := d.users.GetOrCreate(ctx, userID, "นักลงทุน"); err != nil {
		return err
	}

	tx := d.buildTransaction(ctx, userID, parsed)

	if _, err := d.transactions.Append(ctx, tx); err != nil {
		d.log.Error().Err(err).Str("user_id", userID).Msg("Transaction append failed")
		return d.messenger.ReplyFlex(ctx, event.ReplyToken, "เกิดข้อผิดพลาด",
			flex.ErrorMessage("บันทึกรายการไม่สำเร็จ", "ลองส่งรูปใหม่อีกครั้งนะครับ"))
	}

	return d.messenger.ReplyFlex(ctx, event.ReplyToken, "บันทึกรายการสำเร็จ",
		flex.TransactionConfirmation(tx))
}

// buildTransaction converts vision output into a domain transaction,
// canonicalizing the asset label and filling the THB total when the
// screenshot priced the trade in USD.
func (d *Dispatcher) buildTransaction(ctx context.Context, userID string, parsed *gemini.ParsedTransaction) *domain.Transaction {
	canonical := rebalance.NormalizeAsset(parsed.Asset)

	totalTHB := parsed.TotalTHB
	currency := domain.CurrencyTHB
	if totalTHB == 0 && parsed.Price > 0 {
		// Dime and Binance both quote in USD
		currency = domain.CurrencyUSD
		totalTHB = parsed.Amount * parsed.Price * d.fx.USDTHBRate(ctx)
	}

	side := domain.SideBuy
	if strings.EqualFold(parsed.Side, string(domain.SideSell)) {
		side = domain.SideSell
	}

	return &domain.Transaction{
		UserID:    userID,
		Date:      parsed.Date,
		Asset:     canonical,
		AssetRaw:  parsed.Asset,
		AssetType: classifyAsset(parsed.SourceApp, canonical),
		Side:      side,
		Amount:    parsed.Amount,
		Price:     parsed.Price,
		Currency:  currency,
		TotalTHB:  totalTHB,
		SourceApp: parsed.SourceApp,
	}
}

// classifyAsset picks the price-lookup route for an asset
func classifyAsset(sourceApp, canonical string) domain.AssetType {
	if canonical == "GOLD" {
		return domain.AssetTypeGold
	}
	if strings.EqualFold(sourceApp, "Binance") {
		return domain.AssetTypeCrypto
	}
	return domain.AssetTypeStock
}
