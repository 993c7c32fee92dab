package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// ClientID identifies a client account.
type ClientID uint16

// TransactionID identifies a transaction. IDs are unique across all clients.
type TransactionID uint32

// TransactionType discriminates the Transaction union.
type TransactionType string

const (
	TransactionTypeDeposit    TransactionType = "deposit"
	TransactionTypeWithdrawal TransactionType = "withdrawal"
	TransactionTypeDispute    TransactionType = "dispute"
	TransactionTypeResolve    TransactionType = "resolve"
	TransactionTypeChargeback TransactionType = "chargeback"
)

// ParseTransactionType maps the case-sensitive wire tag to a TransactionType.
func ParseTransactionType(s string) (TransactionType, bool) {
	switch t := TransactionType(s); t {
	case TransactionTypeDeposit, TransactionTypeWithdrawal,
		TransactionTypeDispute, TransactionTypeResolve, TransactionTypeChargeback:
		return t, true
	}
	return "", false
}

// CarriesAmount reports whether the type moves funds by itself.
func (t TransactionType) CarriesAmount() bool {
	return t == TransactionTypeDeposit || t == TransactionTypeWithdrawal
}

// Transaction is a single decoded input record.
// Amount is only meaningful for deposits and withdrawals.
type Transaction struct {
	Type   TransactionType
	Client ClientID
	ID     TransactionID
	Amount decimal.Decimal
}

func Deposit(client ClientID, id TransactionID, amount decimal.Decimal) Transaction {
	return Transaction{Type: TransactionTypeDeposit, Client: client, ID: id, Amount: amount}
}

func Withdrawal(client ClientID, id TransactionID, amount decimal.Decimal) Transaction {
	return Transaction{Type: TransactionTypeWithdrawal, Client: client, ID: id, Amount: amount}
}

func Dispute(client ClientID, id TransactionID) Transaction {
	return Transaction{Type: TransactionTypeDispute, Client: client, ID: id}
}

func Resolve(client ClientID, id TransactionID) Transaction {
	return Transaction{Type: TransactionTypeResolve, Client: client, ID: id}
}

func Chargeback(client ClientID, id TransactionID) Transaction {
	return Transaction{Type: TransactionTypeChargeback, Client: client, ID: id}
}

// NewTransaction validates a raw type tag and optional amount and builds the
// corresponding Transaction. A present amount on dispute, resolve or chargeback
// is ignored.
func NewTransaction(tag string, client ClientID, id TransactionID, amount decimal.NullDecimal) (Transaction, error) {
	typ, ok := ParseTransactionType(tag)
	if !ok {
		return Transaction{}, NewDecodeError(KindInvalidTransactionType, fmt.Sprintf("%q", tag), nil)
	}

	if !typ.CarriesAmount() {
		return Transaction{Type: typ, Client: client, ID: id}, nil
	}

	if !amount.Valid {
		return Transaction{}, NewDecodeError(KindMissingAmount, string(typ), nil)
	}
	if err := ValidateAmount(amount.Decimal); err != nil {
		return Transaction{}, NewDecodeError(KindNegativeAmount, fmt.Sprintf("%s amount %s", typ, amount.Decimal), nil)
	}

	return Transaction{Type: typ, Client: client, ID: id, Amount: amount.Decimal}, nil
}

// ValidateAmount checks that a deposit or withdrawal amount is strictly positive.
func ValidateAmount(amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return ErrNegativeAmount
	}
	return nil
}

func (t Transaction) String() string {
	if t.Type.CarriesAmount() {
		return fmt.Sprintf("%s{client=%d tx=%d amount=%s}", t.Type, t.Client, t.ID, t.Amount)
	}
	return fmt.Sprintf("%s{client=%d tx=%d}", t.Type, t.Client, t.ID)
}
