package convert

import (
	"strings"

	"github.com/shopspring/decimal"
)

// BoolPtr takes in boolen condition and returns pointer version of it
func BoolPtr(condition bool) *bool {
	b := condition
	return &b
}

// DecimalToHumanFriendlyString converts a decimal number to a comma separated string at the thousand point
// eg 1000 becomes 1,000
func DecimalToHumanFriendlyString(number decimal.Decimal, rounding int, decPoint, thousandsSep string) string {
	neg := number.IsNegative()
	str := number.Abs().StringFixed(int32(rounding))
	intPart := str
	decPart := ""
	if i := strings.IndexByte(str, '.'); i >= 0 {
		intPart = str[:i]
		decPart = str[i+1:]
	}
	var sb strings.Builder
	if neg {
		sb.WriteByte('-')
	}
	for i := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			sb.WriteString(thousandsSep)
		}
		sb.WriteByte(intPart[i])
	}
	if decPart != "" {
		sb.WriteString(decPoint)
		sb.WriteString(decPart)
	}
	return sb.String()
}
