package domain

import (
	"github.com/shopspring/decimal"
)

// DisplayPlaces is the number of fractional digits used when presenting amounts.
const DisplayPlaces = 4

// Round applies banker's rounding to DisplayPlaces. Used only for presentation.
func Round(d decimal.Decimal) decimal.Decimal {
	return d.RoundBank(DisplayPlaces)
}

// Account is the per-client balance state.
// Total is always derived from Available and Held.
type Account struct {
	Available decimal.Decimal
	Held      decimal.Decimal
	Locked    bool
}

// Total returns available plus held funds.
func (a Account) Total() decimal.Decimal {
	return a.Available.Add(a.Held)
}

// ValidateDebit checks if available funds cover amount.
func (a *Account) ValidateDebit(amount decimal.Decimal) error {
	if a.Locked {
		return ErrAccountLocked
	}
	if a.Available.LessThan(amount) {
		return ErrInsufficientFunds
	}
	return nil
}

// Credit adds amount to available funds.
func (a *Account) Credit(amount decimal.Decimal) {
	a.Available = a.Available.Add(amount)
}

// Debit removes amount from available funds. Callers run ValidateDebit first.
func (a *Account) Debit(amount decimal.Decimal) {
	a.Available = a.Available.Sub(amount)
}

// Hold moves amount from available to held. Available may go negative.
func (a *Account) Hold(amount decimal.Decimal) {
	a.Available = a.Available.Sub(amount)
	a.Held = a.Held.Add(amount)
}

// Release moves amount from held back to available.
func (a *Account) Release(amount decimal.Decimal) {
	a.Held = a.Held.Sub(amount)
	a.Available = a.Available.Add(amount)
}

// Reverse withdraws held funds for good and freezes the account.
func (a *Account) Reverse(amount decimal.Decimal) {
	a.Held = a.Held.Sub(amount)
	a.Locked = true
}

// RoundedAccount is the display form of an Account.
type RoundedAccount struct {
	Available decimal.Decimal
	Held      decimal.Decimal
	Total     decimal.Decimal
	Locked    bool
}

// Rounded rounds each balance for display. Total is the rounded sum of the
// unrounded balances, not the sum of the rounded ones.
func (a Account) Rounded() RoundedAccount {
	return RoundedAccount{
		Available: Round(a.Available),
		Held:      Round(a.Held),
		Total:     Round(a.Total()),
		Locked:    a.Locked,
	}
}
