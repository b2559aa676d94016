package reconcile

import (
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"

	"billing-reconciliation/internal/domain"
)

// ratioPrecision is the number of decimal places kept by every ratio before display rounding.
const ratioPrecision = 10

var (
	halfCent    = decimal.New(5, -3)
	oneHundred  = decimal.NewFromInt(100)
	amountNoise = strings.NewReplacer("$", "", "£", "", "€", "", ",", "", " ", "", "\u00a0", "")
)

// Cents quantises an amount to whole cents.
func Cents(d decimal.Decimal) int64 {
	return d.Round(2).Shift(2).IntPart()
}

// SameCents reports whether two amounts bill the same number of cents. Amounts
// closer than half a cent are always the same, even across a rounding boundary.
func SameCents(a, b decimal.Decimal) bool {
	return Cents(a) == Cents(b) || a.Sub(b).Abs().LessThan(halfCent)
}

// Realization is bill / wip, or zero when wip is not positive.
func Realization(bill, wip decimal.Decimal) decimal.Decimal {
	return ratio(bill, wip)
}

// ratio divides num by den, substituting zero for a non-positive denominator.
func ratio(num, den decimal.Decimal) decimal.Decimal {
	if !den.IsPositive() {
		return decimal.Zero
	}
	return num.DivRound(den, ratioPrecision)
}

func countRatio(num, den int) decimal.Decimal {
	return ratio(decimal.NewFromInt(int64(num)), decimal.NewFromInt(int64(den)))
}

// parseAmount converts a raw field value into an amount. ok is false when the
// value is present but not a number.
func parseAmount(v any) (amount decimal.Decimal, ok bool) {
	switch t := v.(type) {
	case nil:
		return decimal.Zero, true
	case float64:
		return decimal.NewFromFloat(t), true
	case float32:
		return decimal.NewFromFloat32(t), true
	case int:
		return decimal.NewFromInt(int64(t)), true
	case int64:
		return decimal.NewFromInt(t), true
	case json.Number:
		d, err := decimal.NewFromString(t.String())
		if err != nil {
			return decimal.Zero, false
		}
		return d, true
	case decimal.Decimal:
		return t, true
	case string:
		s := amountNoise.Replace(strings.TrimSpace(t))
		if s == "" {
			return decimal.Zero, true
		}
		negative := strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")")
		if negative {
			s = s[1 : len(s)-1]
		}
		d, err := decimal.NewFromString(s)
		if err != nil {
			return decimal.Zero, false
		}
		if negative {
			d = d.Neg()
		}
		return d, true
	default:
		return decimal.Zero, false
	}
}

// resolveAmount reads the first present candidate as an amount. A malformed
// value degrades to zero and reports ok=false.
func resolveAmount(r domain.Record, candidates []string) (decimal.Decimal, bool) {
	v, found := lookup(r, candidates)
	if !found {
		return decimal.Zero, true
	}
	return parseAmount(v)
}
