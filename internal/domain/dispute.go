package domain

import (
	"github.com/shopspring/decimal"
)

// DisputeStatus is the dispute state of a deposit.
type DisputeStatus string

const (
	DisputeStatusNotDisputed DisputeStatus = "not_disputed"
	DisputeStatusDisputed    DisputeStatus = "disputed"
	DisputeStatusChargedBack DisputeStatus = "charged_back"
)

// DisputableTransaction tracks a deposit that can still be disputed.
// ChargedBack is terminal and kept as a tombstone so the id cannot be reused.
type DisputableTransaction struct {
	Client ClientID
	Amount decimal.Decimal
	Status DisputeStatus
}

// CanDispute reports whether a dispute may be opened.
func (d DisputableTransaction) CanDispute() bool {
	return d.Status == DisputeStatusNotDisputed
}

// UnderDispute reports whether a resolve or chargeback applies.
func (d DisputableTransaction) UnderDispute() bool {
	return d.Status == DisputeStatusDisputed
}
