// services/tokengate.go
package services

// MinBalanceForPull is the default token gate for a daily card pull.
// Overridable per deployment via MIN_BALANCE_FOR_PULL.
const MinBalanceForPull = 1000

// Holder tier names, lowest to highest.
const (
	TierHolder  = "holder"
	TierStacker = "stacker"
	TierWhale   = "whale"
	TierLegend  = "legend"
	TierMythic  = "mythic"
)

// holderTiers is the single canonical threshold table, ordered ascending.
// The specific breakpoints are tunable design constants.
var holderTiers = []struct {
	Name      string
	Threshold float64
}{
	{TierHolder, 1_000},
	{TierStacker, 10_000},
	{TierWhale, 50_000},
	{TierLegend, 100_000},
	{TierMythic, 1_000_000},
}

// HasBalance reports whether balance meets the minimum. Pure; the balance is
// always supplied by the caller, never fetched here.
func HasBalance(balance, minimumRequired float64) bool {
	return balance >= minimumRequired
}

// ClassifyTier returns the highest holder tier whose threshold the balance
// meets, or "" below the lowest tier.
func ClassifyTier(balance float64) string {
	tier := ""
	for _, t := range holderTiers {
		if balance >= t.Threshold {
			tier = t.Name
		}
	}
	return tier
}
