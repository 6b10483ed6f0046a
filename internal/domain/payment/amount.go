package payment

import "github.com/shopspring/decimal"

// Minor-unit conversion bounds. Raw amounts below minRawAmount are clamped up
// to clampedAmount instead of being rejected, so near-zero test purchases
// still open a gateway transaction. Real deployments should revisit the
// threshold rather than rely on the clamp.
const (
	minorUnitsPerUnit = 1000
	minRawAmount      = 10
	clampedAmount     = 1000
)

// AmountMinorUnits converts a display-currency total to the gateway's
// smallest currency unit: round(total * 1000), clamped to 1000 when the raw
// result is below 10.
func AmountMinorUnits(total decimal.Decimal) int64 {
	amount := total.Mul(decimal.NewFromInt(minorUnitsPerUnit)).Round(0).IntPart()
	if amount < minRawAmount {
		return clampedAmount
	}
	return amount
}
