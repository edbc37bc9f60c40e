package flex

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/pladee42/opes-ai/internal/modules/portfolio"
	"github.com/pladee42/opes-ai/internal/modules/rebalance"
)

// baht formats a THB amount with thousands separators, no decimals
func baht(v float64) string {
	return "฿" + group(fmt.Sprintf("%.0f", math.Round(v)))
}

// group inserts thousands separators into a formatted integer string
func group(s string) string {
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}

	var out strings.Builder
	for i, r := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			out.WriteByte(',')
		}
		out.WriteRune(r)
	}

	if neg {
		return "-" + out.String()
	}
	return out.String()
}

func statusEmoji(status string) string {
	switch status {
	case rebalance.StatusUnderweight:
		return "🔴"
	case rebalance.StatusOverweight:
		return "🟢"
	default:
		return "⚪"
	}
}

// FormatDCAMessage renders a DCA plan as a readable reply. When the
// USD/THB rate is non-zero, buy amounts also show their USD value.
func FormatDCAMessage(result *rebalance.DCAResult, usdThbRate float64) string {
	var lines []string

	lines = append(lines,
		"📋 แผน DCA เดือนนี้",
		fmt.Sprintf("💰 งบ: %s", baht(result.MonthlyBudget)),
		"",
	)

	for _, r := range result.Recommendations {
		lines = append(lines, fmt.Sprintf("%s %s", statusEmoji(r.Status), r.Asset))

		buyText := fmt.Sprintf("   ซื้อ: %s", baht(r.BuyAmount))
		if usdThbRate > 0 {
			buyText += fmt.Sprintf(" ($%.2f)", r.BuyAmount/usdThbRate)
		}
		lines = append(lines, buyText)

		if r.CurrentValue > 0 {
			lines = append(lines, fmt.Sprintf("   ปัจจุบัน: %s (%.0f%% → %.0f%%)", baht(r.CurrentValue), r.CurrentPct, r.TargetPct))
		} else {
			lines = append(lines, fmt.Sprintf("   เป้า: %.0f%%", r.TargetPct))
		}
		lines = append(lines, "")
	}

	lines = append(lines, "🔴 = น้ำหนักต่ำ | 🟢 = น้ำหนักเกิน | ⚪ = สมดุล")

	return strings.Join(lines, "\n")
}

// FormatDriftMessage renders drift analysis with buy/sell instructions
func FormatDriftMessage(result *rebalance.DriftResult) string {
	var lines []string

	lines = append(lines,
		"⚖️ สถานะสมดุลพอร์ต",
		fmt.Sprintf("มูลค่ารวม: %s", baht(result.TotalPortfolio)),
		"",
	)

	if result.TotalDriftAssets == 0 {
		lines = append(lines, "✅ พอร์ตสมดุลดีแล้ว ไม่ต้องปรับ")
	} else {
		lines = append(lines, fmt.Sprintf("⚠️ มี %d สินทรัพย์ที่เบี่ยงเกิน %.0f%%", result.TotalDriftAssets, result.Threshold))
	}
	lines = append(lines, "")

	for _, a := range result.Actions {
		lines = append(lines, fmt.Sprintf("%s %s (%.1f%% → %.1f%%)", statusEmoji(a.Status), a.Asset, a.CurrentPct, a.TargetPct))

		switch a.ActionType {
		case rebalance.ActionSell:
			lines = append(lines, fmt.Sprintf("   ขาย %s (%.4f หน่วย)", baht(a.ValueTHB), a.QtyToTrade))
		case rebalance.ActionBuy:
			lines = append(lines, fmt.Sprintf("   ซื้อ %s (%.4f หน่วย)", baht(a.ValueTHB), a.QtyToTrade))
		default:
			lines = append(lines, "   คงไว้")
		}
	}

	return strings.Join(lines, "\n")
}

// FormatStatusMessage renders the portfolio valuation with cost basis
// profit/loss per asset.
func FormatStatusMessage(snapshot *portfolio.Snapshot) string {
	if len(snapshot.Quantities) == 0 {
		return "📊 ยังไม่มีข้อมูลการลงทุน\n\nส่งรูปหน้าจอการซื้อขายมาเพื่อเริ่มบันทึกได้เลย 📸"
	}

	var lines []string
	lines = append(lines, "📊 สถานะพอร์ตการลงทุน", "")

	// Stable order: most valuable first
	for _, asset := range assetsByValue(snapshot) {
		pos := snapshot.Positions[asset]
		value, priced := snapshot.Values[asset]

		if !priced {
			lines = append(lines, fmt.Sprintf("• %s: %.4f หน่วย (ไม่พบราคา)", asset, pos.Quantity))
			continue
		}

		line := fmt.Sprintf("• %s: %s", asset, baht(value))
		if pos.CostBasisTHB > 0 {
			plPct := (value - pos.CostBasisTHB) / pos.CostBasisTHB * 100
			line += fmt.Sprintf(" (%+.1f%%)", plPct)
		}
		lines = append(lines, line)
	}

	lines = append(lines, "", fmt.Sprintf("รวม: %s", baht(snapshot.TotalTHB)))

	return strings.Join(lines, "\n")
}

func assetsByValue(snapshot *portfolio.Snapshot) []string {
	assets := make([]string, 0, len(snapshot.Quantities))
	for asset := range snapshot.Quantities {
		assets = append(assets, asset)
	}

	sort.Slice(assets, func(i, j int) bool {
		vi, vj := snapshot.Values[assets[i]], snapshot.Values[assets[j]]
		if vi != vj {
			return vi > vj
		}
		return assets[i] < assets[j]
	})

	return assets
}
