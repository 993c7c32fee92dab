package usecase

import (
	"context"

	"github.com/iho/txledger/internal/domain"
)

// TransactionReader yields decoded transactions in stream order.
// It returns io.EOF at the end of the stream and a *domain.DecodeError for
// a bad record, after which reading may continue.
type TransactionReader interface {
	Read() (domain.Transaction, error)
}

// AccountPublisher hands final account snapshots to the output side.
type AccountPublisher interface {
	// Publish enqueues an account, blocking while the hand-off is full.
	Publish(client domain.ClientID, account domain.Account)
	// Close signals that no more accounts will be published.
	Close()
}

// AccountWriter serializes accounts to an output sink.
type AccountWriter interface {
	WriteAccount(ctx context.Context, client domain.ClientID, account domain.Account) error
	Flush(ctx context.Context) error
}
