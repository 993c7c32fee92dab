package domain

import (
	"iter"
)

// Outcome describes what Apply did with a transaction. Anything other than
// OutcomeApplied is a silent no-op: the data source owns reference correctness.
type Outcome uint8

const (
	OutcomeApplied Outcome = iota
	OutcomeAccountLocked
	OutcomeInsufficientFunds
	OutcomeInvalidAmount
	OutcomeDuplicateTransaction
	OutcomeUnknownTransaction
	OutcomeAlreadyDisputed
	OutcomeNotDisputed
	OutcomeChargedBack
	OutcomeClientMismatch
	OutcomeUnsupported
)

var outcomeNames = [...]string{
	OutcomeApplied:              "applied",
	OutcomeAccountLocked:        "account_locked",
	OutcomeInsufficientFunds:    "insufficient_funds",
	OutcomeInvalidAmount:        "invalid_amount",
	OutcomeDuplicateTransaction: "duplicate_transaction",
	OutcomeUnknownTransaction:   "unknown_transaction",
	OutcomeAlreadyDisputed:      "already_disputed",
	OutcomeNotDisputed:          "not_disputed",
	OutcomeChargedBack:          "charged_back",
	OutcomeClientMismatch:       "client_mismatch",
	OutcomeUnsupported:          "unsupported",
}

func (o Outcome) String() string {
	if int(o) < len(outcomeNames) {
		return outcomeNames[o]
	}
	return "unknown"
}

// LockObserver is called once per account, with a snapshot taken right after
// the chargeback that locked it.
type LockObserver func(client ClientID, account Account)

// LedgerOption configures a Ledger.
type LedgerOption func(*Ledger)

// WithLockObserver registers fn to be told about newly locked accounts.
func WithLockObserver(fn LockObserver) LedgerOption {
	return func(l *Ledger) {
		l.onLock = fn
	}
}

// WithClientMatch controls whether dispute, resolve and chargeback must name
// the client that made the referenced deposit. Enabled by default.
func WithClientMatch(enforce bool) LedgerOption {
	return func(l *Ledger) {
		l.enforceClientMatch = enforce
	}
}

// Ledger applies transactions to client accounts. It is not safe for
// concurrent use; a single goroutine owns it for the whole run.
type Ledger struct {
	accounts           map[ClientID]*Account
	disputable         map[TransactionID]DisputableTransaction
	onLock             LockObserver
	enforceClientMatch bool
}

// NewLedger creates an empty ledger.
func NewLedger(opts ...LedgerOption) *Ledger {
	l := &Ledger{
		accounts:           make(map[ClientID]*Account),
		disputable:         make(map[TransactionID]DisputableTransaction),
		enforceClientMatch: true,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Apply mutates the ledger for one transaction and reports what happened.
// The client's account is created on first reference, even if the
// transaction itself turns out to be a no-op.
func (l *Ledger) Apply(tx Transaction) Outcome {
	acc := l.account(tx.Client)
	if acc.Locked {
		return OutcomeAccountLocked
	}

	switch tx.Type {
	case TransactionTypeDeposit:
		return l.deposit(acc, tx)
	case TransactionTypeWithdrawal:
		return l.withdraw(acc, tx)
	case TransactionTypeDispute:
		return l.dispute(acc, tx)
	case TransactionTypeResolve:
		return l.resolve(acc, tx)
	case TransactionTypeChargeback:
		return l.chargeback(acc, tx)
	default:
		return OutcomeUnsupported
	}
}

// deposit credits the account. The first deposit with a given id wins; a
// repeated id, including a charged-back one, is ignored.
func (l *Ledger) deposit(acc *Account, tx Transaction) Outcome {
	if ValidateAmount(tx.Amount) != nil {
		return OutcomeInvalidAmount
	}
	if _, seen := l.disputable[tx.ID]; seen {
		return OutcomeDuplicateTransaction
	}

	acc.Credit(tx.Amount)
	l.disputable[tx.ID] = DisputableTransaction{
		Client: tx.Client,
		Amount: tx.Amount,
		Status: DisputeStatusNotDisputed,
	}
	return OutcomeApplied
}

func (l *Ledger) withdraw(acc *Account, tx Transaction) Outcome {
	if ValidateAmount(tx.Amount) != nil {
		return OutcomeInvalidAmount
	}
	if err := acc.ValidateDebit(tx.Amount); err != nil {
		return OutcomeInsufficientFunds
	}

	acc.Debit(tx.Amount)
	return OutcomeApplied
}

func (l *Ledger) dispute(acc *Account, tx Transaction) Outcome {
	ref, outcome := l.lookup(tx)
	if outcome != OutcomeApplied {
		return outcome
	}
	if !ref.CanDispute() {
		return OutcomeAlreadyDisputed
	}

	acc.Hold(ref.Amount)
	ref.Status = DisputeStatusDisputed
	l.disputable[tx.ID] = ref
	return OutcomeApplied
}

func (l *Ledger) resolve(acc *Account, tx Transaction) Outcome {
	ref, outcome := l.lookup(tx)
	if outcome != OutcomeApplied {
		return outcome
	}
	if !ref.UnderDispute() {
		return OutcomeNotDisputed
	}

	acc.Release(ref.Amount)
	ref.Status = DisputeStatusNotDisputed
	l.disputable[tx.ID] = ref
	return OutcomeApplied
}

func (l *Ledger) chargeback(acc *Account, tx Transaction) Outcome {
	ref, outcome := l.lookup(tx)
	if outcome != OutcomeApplied {
		return outcome
	}
	if !ref.UnderDispute() {
		return OutcomeNotDisputed
	}

	acc.Reverse(ref.Amount)
	ref.Status = DisputeStatusChargedBack
	l.disputable[tx.ID] = ref

	if l.onLock != nil {
		l.onLock(tx.Client, *acc)
	}
	return OutcomeApplied
}

func (l *Ledger) lookup(tx Transaction) (DisputableTransaction, Outcome) {
	ref, ok := l.disputable[tx.ID]
	if !ok {
		return DisputableTransaction{}, OutcomeUnknownTransaction
	}
	if l.enforceClientMatch && ref.Client != tx.Client {
		return DisputableTransaction{}, OutcomeClientMismatch
	}
	if ref.Status == DisputeStatusChargedBack {
		return DisputableTransaction{}, OutcomeChargedBack
	}
	return ref, OutcomeApplied
}

func (l *Ledger) account(client ClientID) *Account {
	acc, ok := l.accounts[client]
	if !ok {
		acc = &Account{}
		l.accounts[client] = acc
	}
	return acc
}

// Account returns a snapshot of the client's account.
func (l *Ledger) Account(client ClientID) (Account, bool) {
	acc, ok := l.accounts[client]
	if !ok {
		return Account{}, false
	}
	return *acc, true
}

// Disputable returns the dispute state recorded for a deposit id.
func (l *Ledger) Disputable(id TransactionID) (DisputableTransaction, bool) {
	d, ok := l.disputable[id]
	return d, ok
}

// Len returns the number of known clients.
func (l *Ledger) Len() int {
	return len(l.accounts)
}

// All yields a snapshot of every account. Order is unspecified.
func (l *Ledger) All() iter.Seq2[ClientID, Account] {
	return func(yield func(ClientID, Account) bool) {
		for client, acc := range l.accounts {
			if !yield(client, *acc) {
				return
			}
		}
	}
}

// Accounts returns a copy of every account keyed by client.
func (l *Ledger) Accounts() map[ClientID]Account {
	out := make(map[ClientID]Account, len(l.accounts))
	for client, acc := range l.All() {
		out[client] = acc
	}
	return out
}
