package bot

import (
	"context"
	"strconv"
	"strings"

	"github.com/pladee42/opes-ai/internal/clients/line"
	"github.com/pladee42/opes-ai/internal/domain"
	"github.com/pladee42/opes-ai/pkg/flex"
)

// Postback data values wired into flex message buttons
const (
	postbackStartOnboarding = "start_onboarding"
	postbackSkipOnboarding  = "skip_onboarding"
	postbackSetBudget       = "set_budget"
)

func (d *Dispatcher) handlePostback(ctx context.Context, event line.Event) error {
	if event.Postback == nil {
		return nil
	}

	userID := event.Source.UserID
	data := event.Postback.Data

	key, value := data, ""
	if idx := strings.IndexByte(data, '='); idx >= 0 {
		key, value = data[:idx], data[idx+1:]
	}

	switch key {
	case postbackStartOnboarding:
		return d.messenger.ReplyFlex(ctx, event.ReplyToken, "ตั้งค่าแผนลงทุน",
			flex.SetupPlanPrompt())

	case postbackSkipOnboarding:
		if err := d.users.SetOnboardingStatus(ctx, userID, domain.OnboardingActive); err != nil {
			return err
		}
		return d.messenger.ReplyText(ctx, event.ReplyToken,
			"ข้ามการตั้งค่าไปก่อนได้ครับ 👍 ส่งรูปสลิปมาบันทึกรายการได้เลย\nพิมพ์ \"ช่วยเหลือ\" เมื่อพร้อมตั้งแผน")

	case postbackSetBudget:
		budget, err := strconv.Atoi(value)
		if err != nil || budget <= 0 {
			d.log.Warn().Str("data", data).Msg("Malformed budget postback")
			return d.messenger.ReplyText(ctx, event.ReplyToken,
				"งบไม่ถูกต้อง ลองเลือกใหม่อีกครั้งนะครับ")
		}
		if err := d.users.SetMonthlyBudget(ctx, userID, budget); err != nil {
			return err
		}
		return d.messenger.ReplyText(ctx, event.ReplyToken,
			"ตั้งงบ "+strconv.Itoa(budget)+" บาท/เดือนเรียบร้อย ✅\n"+
				"ต่อไปตั้งสัดส่วนเป้าหมายผ่านหน้าเว็บ หรือพิมพ์ \"แผน\" เมื่อพร้อม")

	default:
		d.log.Debug().Str("data", data).Msg("Ignoring unknown postback")
		return nil
	}
}
