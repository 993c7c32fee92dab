package usecase

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"

	"github.com/iho/txledger/internal/domain"
	"github.com/iho/txledger/internal/infrastructure/metrics"
)

// ErrAlreadyFinalized is returned when Finalize runs twice.
var ErrAlreadyFinalized = errors.New("ledger already finalized")

// LedgerConfig selects the run policies.
type LedgerConfig struct {
	// Strict aborts the load on the first decode error instead of skipping it.
	Strict bool
	// EarlyEmit publishes an account as soon as it is locked; Finalize then
	// skips locked accounts.
	EarlyEmit          bool
	EnforceClientMatch bool
}

// Stats summarizes a load.
type Stats struct {
	Records      int
	Applied      int
	Ignored      int
	DecodeErrors int
	Locked       int
	Accounts     int
}

// LedgerUseCase drives a transaction stream through the ledger and hands the
// resulting accounts to a publisher.
type LedgerUseCase struct {
	cfg       LedgerConfig
	ledger    *domain.Ledger
	publisher AccountPublisher
	logger    zerolog.Logger
	metrics   *metrics.Metrics
	stats     Stats
	finalized bool
}

// NewLedgerUseCase creates a LedgerUseCase with an empty ledger.
// metrics may be nil.
func NewLedgerUseCase(cfg LedgerConfig, publisher AccountPublisher, logger zerolog.Logger, m *metrics.Metrics) *LedgerUseCase {
	uc := &LedgerUseCase{
		cfg:       cfg,
		publisher: publisher,
		logger:    logger,
		metrics:   m,
	}
	uc.ledger = domain.NewLedger(
		domain.WithClientMatch(cfg.EnforceClientMatch),
		domain.WithLockObserver(uc.accountLocked),
	)
	return uc
}

// Load applies every transaction from r in order until io.EOF.
// Decode errors are skipped, or returned in strict mode. Any other read
// error is fatal.
func (uc *LedgerUseCase) Load(r TransactionReader) (stats Stats, err error) {
	start := time.Now()
	defer func() {
		if uc.metrics != nil {
			uc.metrics.LoadDuration.Observe(time.Since(start).Seconds())
			uc.metrics.Accounts.Set(float64(uc.ledger.Len()))
		}
		uc.stats.Accounts = uc.ledger.Len()
		stats = uc.stats
	}()

	for {
		tx, readErr := r.Read()
		if errors.Is(readErr, io.EOF) {
			return uc.stats, nil
		}

		var de *domain.DecodeError
		if readErr != nil {
			var ok bool
			if de, ok = domain.AsDecodeError(readErr); !ok {
				return uc.stats, readErr
			}
		}

		if uc.metrics != nil {
			uc.metrics.RecordsRead.Inc()
		}
		uc.stats.Records++

		if de != nil {
			uc.stats.DecodeErrors++
			if uc.metrics != nil {
				uc.metrics.DecodeErrors.WithLabelValues(de.Kind.String()).Inc()
			}

			if uc.cfg.Strict {
				return uc.stats, fmt.Errorf("invalid transaction: %w", de)
			}

			uc.logger.Warn().
				Err(de).
				Int("line", de.Line).
				Str("kind", de.Kind.String()).
				Msg("skipping invalid record")
			continue
		}

		uc.Apply(tx)
	}
}

// Apply hands a single transaction to the ledger.
func (uc *LedgerUseCase) Apply(tx domain.Transaction) domain.Outcome {
	outcome := uc.ledger.Apply(tx)

	if outcome == domain.OutcomeApplied {
		uc.stats.Applied++
	} else {
		uc.stats.Ignored++
		uc.logger.Debug().
			Str("type", string(tx.Type)).
			Uint16("client", uint16(tx.Client)).
			Uint32("tx", uint32(tx.ID)).
			Str("reason", outcome.String()).
			Msg("transaction ignored")
	}

	if uc.metrics != nil {
		uc.metrics.Transactions.WithLabelValues(string(tx.Type), outcome.String()).Inc()
	}
	return outcome
}

func (uc *LedgerUseCase) accountLocked(client domain.ClientID, account domain.Account) {
	uc.stats.Locked++
	if uc.metrics != nil {
		uc.metrics.AccountsLocked.Inc()
	}

	uc.logger.Info().
		Uint16("client", uint16(client)).
		Str("total", account.Total().String()).
		Msg("account locked by chargeback")

	if uc.cfg.EarlyEmit {
		uc.publisher.Publish(client, account)
	}
}

// Finalize publishes the remaining accounts and closes the publisher.
// With early emission, locked accounts were already published and are skipped.
func (uc *LedgerUseCase) Finalize() error {
	if uc.finalized {
		return ErrAlreadyFinalized
	}
	uc.finalized = true

	published := 0
	for client, account := range uc.ledger.All() {
		if uc.cfg.EarlyEmit && account.Locked {
			continue
		}
		uc.publisher.Publish(client, account)
		published++
	}
	uc.publisher.Close()

	uc.logger.Debug().Int("accounts", published).Msg("ledger finalized")
	return nil
}

// Stats returns the counters collected so far.
func (uc *LedgerUseCase) Stats() Stats {
	return uc.stats
}

// Accounts returns a snapshot of every account.
func (uc *LedgerUseCase) Accounts() map[domain.ClientID]domain.Account {
	return uc.ledger.Accounts()
}
