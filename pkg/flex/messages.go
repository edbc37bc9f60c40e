// Package flex builds LINE Flex Message payloads and reply texts. All
// presentation concerns (Thai copy, currency symbols, emoji) live here;
// the calculators hand over plain result records.
package flex

import (
	"fmt"

	"github.com/pladee42/opes-ai/internal/domain"
)

type box = map[string]interface{}

func bubble(contents ...interface{}) box {
	return box{
		"type": "bubble",
		"body": box{
			"type":     "box",
			"layout":   "vertical",
			"spacing":  "md",
			"contents": contents,
		},
	}
}

func textBlock(text string, attrs box) box {
	block := box{"type": "text", "text": text, "wrap": true}
	for k, v := range attrs {
		block[k] = v
	}
	return block
}

// WelcomeMessage greets a brand new user and offers onboarding
func WelcomeMessage(displayName string) map[string]interface{} {
	return bubble(
		textBlock(fmt.Sprintf("ยินดีต้อนรับ %s! 👋", displayName), box{"weight": "bold", "size": "lg"}),
		textBlock("ส่งรูปหน้าจอการซื้อขายจาก Dime! หรือ Binance มาเพื่อบันทึกรายการลงทุนได้เลย", box{"size": "sm", "color": "#666666"}),
		box{
			"type":   "button",
			"style":  "primary",
			"action": box{"type": "postback", "label": "ตั้งค่าแผนลงทุน", "data": "start_onboarding"},
		},
		box{
			"type":   "button",
			"style":  "secondary",
			"action": box{"type": "postback", "label": "ข้ามไปก่อน", "data": "skip_onboarding"},
		},
	)
}

// WelcomeBackMessage greets a returning user
func WelcomeBackMessage(displayName string) map[string]interface{} {
	return bubble(
		textBlock(fmt.Sprintf("ยินดีต้อนรับกลับ %s! 🎉", displayName), box{"weight": "bold", "size": "lg"}),
		textBlock("ข้อมูลการลงทุนของคุณยังอยู่ครบ ส่งรูปสลิปมาต่อได้เลย 📸", box{"size": "sm", "color": "#666666"}),
	)
}

// SetupPlanPrompt sends the user into the plan setup flow
func SetupPlanPrompt() map[string]interface{} {
	return bubble(
		textBlock("ตั้งค่าแผนลงทุน 📋", box{"weight": "bold", "size": "lg"}),
		textBlock("กำหนดงบต่อเดือนและสัดส่วนสินทรัพย์เป้าหมายของคุณ", box{"size": "sm", "color": "#666666"}),
		box{
			"type":   "button",
			"style":  "primary",
			"action": box{"type": "postback", "label": "งบ 10,000 บาท/เดือน", "data": "set_budget=10000"},
		},
		box{
			"type":   "button",
			"style":  "secondary",
			"action": box{"type": "postback", "label": "งบ 20,000 บาท/เดือน", "data": "set_budget=20000"},
		},
	)
}

// TransactionConfirmation shows a recorded transaction back to the user
func TransactionConfirmation(tx *domain.Transaction) map[string]interface{} {
	sideText := "ซื้อ"
	sideColor := "#1DB446"
	if tx.Side == domain.SideSell {
		sideText = "ขาย"
		sideColor = "#D32F2F"
	}

	return bubble(
		textBlock("บันทึกรายการสำเร็จ ✅", box{"weight": "bold", "size": "lg"}),
		textBlock(fmt.Sprintf("%s %s", sideText, tx.Asset), box{"weight": "bold", "size": "xl", "color": sideColor}),
		textBlock(fmt.Sprintf("จำนวน: %.4f", tx.Amount), box{"size": "sm"}),
		textBlock(fmt.Sprintf("มูลค่า: %s", baht(tx.TotalTHB)), box{"size": "sm"}),
		textBlock(fmt.Sprintf("ที่มา: %s", tx.SourceApp), box{"size": "xs", "color": "#999999"}),
	)
}

// ErrorMessage renders a friendly failure bubble
func ErrorMessage(title, message string) map[string]interface{} {
	return bubble(
		textBlock("❌ "+title, box{"weight": "bold", "size": "lg", "color": "#D32F2F"}),
		textBlock(message, box{"size": "sm", "color": "#666666"}),
	)
}
