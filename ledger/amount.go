package ledger

import (
	"github.com/shopspring/decimal"
)

// maxMagnitude bounds the representable balance range. It mirrors the
// 96-bit coefficient limit of the decimal type used by the systems this
// engine replays streams from; shopspring decimals are arbitrary
// precision, so the range has to be enforced here for checked arithmetic
// to have anything to check.
var maxMagnitude = decimal.RequireFromString("79228162514264337593543950335")

// inRange reports whether d is within the representable balance range.
func inRange(d decimal.Decimal) bool {
	return d.Abs().LessThanOrEqual(maxMagnitude)
}

// checkedAdd returns a+b, or ok=false when the result would leave the
// representable range. The inputs are assumed in range.
func checkedAdd(a, b decimal.Decimal) (decimal.Decimal, bool) {
	sum := a.Add(b)
	if !inRange(sum) {
		return decimal.Zero, false
	}
	return sum, true
}

// checkedSub returns a-b with the same range check as checkedAdd.
func checkedSub(a, b decimal.Decimal) (decimal.Decimal, bool) {
	diff := a.Sub(b)
	if !inRange(diff) {
		return decimal.Zero, false
	}
	return diff, true
}

// saturatingAdd returns a+b clamped to the representable range. Used for
// dispute transfers, where the moved amount already participated in a
// successful deposit and the clamp can only trigger on adversarial input.
func saturatingAdd(a, b decimal.Decimal) decimal.Decimal {
	return clamp(a.Add(b))
}

// saturatingSub returns a-b clamped to the representable range.
func saturatingSub(a, b decimal.Decimal) decimal.Decimal {
	return clamp(a.Sub(b))
}

func clamp(d decimal.Decimal) decimal.Decimal {
	if d.GreaterThan(maxMagnitude) {
		return maxMagnitude
	}
	if d.LessThan(maxMagnitude.Neg()) {
		return maxMagnitude.Neg()
	}
	return d
}
