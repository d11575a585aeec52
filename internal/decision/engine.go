// Package decision holds the pure edge-and-sizing logic shared by the
// backtest simulator and the live trading loop. Nothing here does I/O or
// keeps state: identical inputs always produce identical decisions, which
// is what makes backtest performance a valid predictor of live behavior.
package decision

import "github.com/alejandrodnm/kalshibot/internal/domain"

// Risk bounds a single decision. All fields are validated at startup by
// the config package; the engine trusts them.
type Risk struct {
	// MinimumEdgeCents is the smallest edge worth trading. Below it the
	// engine fails closed.
	MinimumEdgeCents int
	// MaxRiskFraction caps the Kelly fraction: never more than this share
	// of bankroll on one trade, regardless of model confidence.
	MaxRiskFraction float64
	// MinimumContracts, when > 0, is the lot floor applied if a positive
	// Kelly fraction rounds down to zero contracts. Off by default; it
	// exists to exercise the full pipeline on small bankrolls and is a
	// policy knob, not sizing logic.
	MinimumContracts int
}

// EvaluateEdge returns fair value minus the price a side can be bought at.
// For the NO side pass 100−fairValue as fairValueCents. May be negative.
func EvaluateEdge(fairValueCents, sidePriceCents int) int {
	return fairValueCents - sidePriceCents
}

// SizePosition converts an edge and a win probability into a contract
// count using a unit-odds Kelly fraction clamped to [0, MaxRiskFraction].
func SizePosition(edgeCents int, winProbability float64, bankrollCents int64, risk Risk) int {
	if edgeCents < risk.MinimumEdgeCents {
		return 0
	}

	// Unit odds: each contract pays 1 if right, 0 if wrong, so the Kelly
	// fraction collapses to p − q = 2p − 1.
	kelly := 2*winProbability - 1
	if kelly <= 0 {
		return 0
	}
	if kelly > risk.MaxRiskFraction {
		kelly = risk.MaxRiskFraction
	}

	positionValueCents := float64(bankrollCents) * kelly
	contracts := int(positionValueCents / 100)

	if contracts == 0 && risk.MinimumContracts > 0 {
		return risk.MinimumContracts
	}
	return contracts
}

// ChooseSideAndSize evaluates both sides of a quote and returns the
// position to take, if any. When both sides clear the minimum edge the
// larger edge wins; an exact tie goes to YES so the choice is
// deterministic. Inactive quotes are never traded against.
func ChooseSideAndSize(fairValueCents int, quote domain.MarketQuote, bankrollCents int64, risk Risk) domain.PositionDecision {
	if !quote.Active {
		return domain.NoTrade()
	}

	yesEdge := EvaluateEdge(fairValueCents, quote.YesAskCents)
	noEdge := EvaluateEdge(100-fairValueCents, quote.NoAskCents)

	p := float64(fairValueCents) / 100

	yesQualifies := yesEdge >= risk.MinimumEdgeCents
	noQualifies := noEdge >= risk.MinimumEdgeCents

	var side domain.Side
	switch {
	case yesQualifies && (!noQualifies || yesEdge >= noEdge):
		side = domain.SideYes
	case noQualifies:
		side = domain.SideNo
	default:
		return domain.NoTrade()
	}

	var edge, price int
	var winProb float64
	if side == domain.SideYes {
		edge, price, winProb = yesEdge, quote.YesAskCents, p
	} else {
		edge, price, winProb = noEdge, quote.NoAskCents, 1-p
	}

	count := SizePosition(edge, winProb, bankrollCents, risk)
	if count == 0 {
		return domain.NoTrade()
	}

	return domain.PositionDecision{
		Side:                side,
		ContractCount:       count,
		ReferencePriceCents: price,
	}
}
