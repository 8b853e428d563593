// Package format renders monetary amounts for user-facing text. All amounts
// are denominated in millions of KRW, matching the engine.
package format

import (
	"fmt"
	"strings"
)

// Amount returns a Korean-style string for an amount in millions of KRW.
// Values of 100 and above use 억 (e.g. 1500 -> "15억", 750.5 -> "7.51억");
// smaller values use 만원 (e.g. 45 -> "4,500만원").
func Amount(amount float64) string {
	if amount < 0 {
		return "-" + Amount(-amount)
	}
	if amount >= 100 {
		eok := fmt.Sprintf("%.2f", amount/100)
		eok = strings.TrimRight(eok, "0")
		eok = strings.TrimRight(eok, ".")
		return eok + "억"
	}
	return groupThousands(fmt.Sprintf("%.0f", amount*100)) + "만원"
}

// Percent renders a percentage rate for user-facing text (e.g. "1.1%").
func Percent(ratePct float64) string {
	s := fmt.Sprintf("%.2f", ratePct)
	s = strings.TrimRight(s, "0")
	s = strings.TrimRight(s, ".")
	return s + "%"
}

func groupThousands(intPart string) string {
	if len(intPart) <= 3 {
		return intPart
	}
	var builder strings.Builder
	for i, digit := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			builder.WriteByte(',')
		}
		builder.WriteRune(digit)
	}
	return builder.String()
}
