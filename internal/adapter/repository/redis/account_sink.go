package redis

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/iho/txledger/internal/domain"
)

// Hash fields of a stored account.
const (
	FieldAvailable = "available"
	FieldHeld      = "held"
	FieldTotal     = "total"
	FieldLocked    = "locked"
)

type pendingAccount struct {
	client  domain.ClientID
	account domain.RoundedAccount
}

// AccountSink implements usecase.AccountWriter on Redis. Every run writes
// under its own key namespace: one hash per account plus a set of client ids.
// It is not safe for concurrent use.
type AccountSink struct {
	client    redis.Cmdable
	prefix    string
	runID     string
	ttl       time.Duration
	batchSize int
	retrier   *Retrier
	pending   []pendingAccount
}

// SinkConfig for AccountSink.
type SinkConfig struct {
	Prefix    string
	RunID     string
	TTL       time.Duration // Zero keeps keys forever
	BatchSize int
	Retrier   *Retrier
}

// NewAccountSink creates a new AccountSink.
func NewAccountSink(client redis.Cmdable, cfg SinkConfig) *AccountSink {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 500
	}

	return &AccountSink{
		client:    client,
		prefix:    cfg.Prefix,
		runID:     cfg.RunID,
		ttl:       cfg.TTL,
		batchSize: cfg.BatchSize,
		retrier:   cfg.Retrier,
		pending:   make([]pendingAccount, 0, cfg.BatchSize),
	}
}

// AccountKey returns the hash key holding client's account.
func (s *AccountSink) AccountKey(client domain.ClientID) string {
	return fmt.Sprintf("%s:%s:account:%d", s.prefix, s.runID, client)
}

// ClientsKey returns the set key listing every written client.
func (s *AccountSink) ClientsKey() string {
	return fmt.Sprintf("%s:%s:clients", s.prefix, s.runID)
}

// WriteAccount buffers the account and sends a pipeline once the batch is full.
func (s *AccountSink) WriteAccount(ctx context.Context, client domain.ClientID, account domain.Account) error {
	s.pending = append(s.pending, pendingAccount{client: client, account: account.Rounded()})
	if len(s.pending) < s.batchSize {
		return nil
	}
	return s.send(ctx)
}

// Flush sends whatever is buffered.
func (s *AccountSink) Flush(ctx context.Context) error {
	return s.send(ctx)
}

func (s *AccountSink) send(ctx context.Context) error {
	if len(s.pending) == 0 {
		return nil
	}

	// the pipeline only overwrites hashes and adds set members, so a retry is harmless
	op := func() error {
		_, err := s.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
			clientsKey := s.ClientsKey()
			for _, p := range s.pending {
				key := s.AccountKey(p.client)
				pipe.HSet(ctx, key,
					FieldAvailable, p.account.Available.String(),
					FieldHeld, p.account.Held.String(),
					FieldTotal, p.account.Total.String(),
					FieldLocked, strconv.FormatBool(p.account.Locked),
				)
				if s.ttl > 0 {
					pipe.Expire(ctx, key, s.ttl)
				}
				pipe.SAdd(ctx, clientsKey, uint16(p.client))
			}
			if s.ttl > 0 {
				pipe.Expire(ctx, clientsKey, s.ttl)
			}
			return nil
		})
		return err
	}

	var err error
	if s.retrier != nil {
		err = s.retrier.Retry(ctx, op)
	} else {
		err = op()
	}
	if err != nil {
		return fmt.Errorf("failed to write %d accounts to redis: %w", len(s.pending), err)
	}

	s.pending = s.pending[:0]
	return nil
}
