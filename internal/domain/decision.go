package domain

// Side is the contract side a decision refers to.
type Side string

const (
	SideYes  Side = "YES"
	SideNo   Side = "NO"
	SideNone Side = "NONE"
)

// PositionDecision is the output of the decision engine: which side to buy,
// how many contracts, and the price the edge was computed against.
// ContractCount == 0 if and only if Side == SideNone.
type PositionDecision struct {
	Side                Side
	ContractCount       int
	ReferencePriceCents int
}

// NoTrade is the canonical "stay out" decision.
func NoTrade() PositionDecision {
	return PositionDecision{Side: SideNone}
}

// IsTrade reports whether the decision actually buys contracts.
func (d PositionDecision) IsTrade() bool {
	return d.Side != SideNone && d.ContractCount > 0
}
