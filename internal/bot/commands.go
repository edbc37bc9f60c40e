package bot

import (
	"context"
	"errors"
	"strings"

	"github.com/pladee42/opes-ai/internal/clients/line"
	"github.com/pladee42/opes-ai/internal/modules/rebalance"
	"github.com/pladee42/opes-ai/pkg/flex"
)

type command int

const (
	cmdUnknown command = iota
	cmdHelp
	cmdStatus
	cmdPlan
	cmdRebalance
)

// Keyword lists are checked in order; the first hit wins. Thai users mix
// Thai and English freely, so both languages match.
var commandKeywords = []struct {
	cmd      command
	keywords []string
}{
	{cmdHelp, []string{"help", "ช่วยเหลือ", "ช่วย", "วิธีใช้", "เมนู"}},
	{cmdRebalance, []string{"rebalance", "ปรับพอร์ต", "ปรับสมดุล", "drift"}},
	{cmdPlan, []string{"plan", "dca", "แผน", "ลงทุนเดือนนี้"}},
	{cmdStatus, []string{"status", "port", "สถานะ", "พอร์ต", "ดูพอร์ต"}},
}

// detectCommand matches free text against known commands. Matching is
// substring based so "ขอดูพอร์ตหน่อย" still resolves to status.
func detectCommand(text string) command {
	lowered := strings.ToLower(strings.TrimSpace(text))
	if lowered == "" {
		return cmdUnknown
	}

	for _, entry := range commandKeywords {
		for _, kw := range entry.keywords {
			if strings.Contains(lowered, kw) {
				return entry.cmd
			}
		}
	}
	return cmdUnknown
}

const helpText = `🤖 คำสั่งที่ใช้ได้

📸 ส่งรูปหน้าจอการซื้อขาย → บันทึกรายการอัตโนมัติ
📊 "สถานะ" หรือ "port" → ดูพอร์ตปัจจุบัน
📋 "แผน" หรือ "dca" → แผนลงทุนเดือนนี้
⚖️ "ปรับพอร์ต" หรือ "rebalance" → เช็คความสมดุลพอร์ต
❓ "ช่วยเหลือ" → ดูข้อความนี้อีกครั้ง`

const setupHint = "ยังไม่ได้ตั้งเป้าสัดส่วนการลงทุน ⚙️\nกด \"ตั้งค่าแผนลงทุน\" หรือพิมพ์ \"ช่วยเหลือ\" เพื่อเริ่มต้น"

func (d *Dispatcher) handleTextCommand(ctx context.Context, event line.Event) error {
	cmd := detectCommand(event.Message.Text)
	userID := event.Source.UserID

	switch cmd {
	case cmdHelp:
		return d.messenger.ReplyText(ctx, event.ReplyToken, helpText)

	case cmdStatus:
		snapshot, err := d.portfolio.Valuation(ctx, userID)
		if err != nil {
			d.log.Error().Err(err).Str("user_id", userID).Msg("Valuation failed")
			return d.messenger.ReplyFlex(ctx, event.ReplyToken, "เกิดข้อผิดพลาด",
				flex.ErrorMessage("ดูพอร์ตไม่สำเร็จ", "ลองใหม่อีกครั้งในอีกสักครู่นะครับ"))
		}
		return d.messenger.ReplyText(ctx, event.ReplyToken, flex.FormatStatusMessage(snapshot))

	case cmdPlan:
		plan, err := d.planner.MonthlyPlan(ctx, userID)
		if errors.Is(err, rebalance.ErrNoAllocation) {
			return d.messenger.ReplyText(ctx, event.ReplyToken, setupHint)
		}
		if err != nil {
			d.log.Error().Err(err).Str("user_id", userID).Msg("Plan failed")
			return d.messenger.ReplyFlex(ctx, event.ReplyToken, "เกิดข้อผิดพลาด",
				flex.ErrorMessage("คำนวณแผนไม่สำเร็จ", "ลองใหม่อีกครั้งในอีกสักครู่นะครับ"))
		}
		return d.messenger.ReplyText(ctx, event.ReplyToken,
			flex.FormatDCAMessage(plan, d.fx.USDTHBRate(ctx)))

	case cmdRebalance:
		report, err := d.planner.DriftReport(ctx, userID)
		if errors.Is(err, rebalance.ErrNoAllocation) {
			return d.messenger.ReplyText(ctx, event.ReplyToken, setupHint)
		}
		if errors.Is(err, rebalance.ErrEmptyPortfolio) {
			return d.messenger.ReplyText(ctx, event.ReplyToken,
				"ยังไม่มีมูลค่าพอร์ตให้วิเคราะห์ ส่งรูปสลิปการซื้อมาก่อนนะครับ 📸")
		}
		if err != nil {
			d.log.Error().Err(err).Str("user_id", userID).Msg("Drift report failed")
			return d.messenger.ReplyFlex(ctx, event.ReplyToken, "เกิดข้อผิดพลาด",
				flex.ErrorMessage("วิเคราะห์พอร์ตไม่สำเร็จ", "ลองใหม่อีกครั้งในอีกสักครู่นะครับ"))
		}
		return d.messenger.ReplyText(ctx, event.ReplyToken, flex.FormatDriftMessage(report))

	default:
		return d.messenger.ReplyText(ctx, event.ReplyToken,
			"ไม่เข้าใจคำสั่งครับ 🤔 พิมพ์ \"ช่วยเหลือ\" เพื่อดูคำสั่งทั้งหมด")
	}
}
