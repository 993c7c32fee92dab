package eventpublisher

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/iho/txledger/internal/domain"
	"github.com/iho/txledger/internal/infrastructure/metrics"
	"github.com/iho/txledger/internal/usecase"
)

type event struct {
	client  domain.ClientID
	account domain.Account
}

// AccountPublisher hands accounts from the ledger goroutine to a single
// consumer that writes them to an AccountWriter.
type AccountPublisher struct {
	writer  usecase.AccountWriter
	logger  zerolog.Logger
	metrics *metrics.Metrics
	sink    string

	queue     chan event
	done      chan struct{}
	closeOnce sync.Once
	aborted   atomic.Bool
}

// Config for AccountPublisher.
type Config struct {
	Writer     usecase.AccountWriter
	Logger     zerolog.Logger
	BufferSize int              // Queue capacity; Publish blocks when it is full
	Metrics    *metrics.Metrics // Optional
	Sink       string           // Metric label for the writer
}

// NewAccountPublisher creates a new AccountPublisher.
func NewAccountPublisher(cfg Config) *AccountPublisher {
	if cfg.BufferSize <= 0 {
		cfg.BufferSize = 1024
	}
	if cfg.Sink == "" {
		cfg.Sink = "unknown"
	}

	return &AccountPublisher{
		writer:  cfg.Writer,
		logger:  cfg.Logger,
		metrics: cfg.Metrics,
		sink:    cfg.Sink,
		queue:   make(chan event, cfg.BufferSize),
		done:    make(chan struct{}),
	}
}

// Publish enqueues an account snapshot. It blocks while the queue is full and
// drops the snapshot once the consumer has stopped.
func (p *AccountPublisher) Publish(client domain.ClientID, account domain.Account) {
	select {
	case p.queue <- event{client: client, account: account}:
	case <-p.done:
	}
}

// Close marks the end of the stream. Publish must not be called afterwards.
func (p *AccountPublisher) Close() {
	p.closeOnce.Do(func() {
		close(p.queue)
	})
}

// Abort ends the stream for a failed run: queued accounts are discarded and
// the writer is not flushed. Rows a writer already pushed out stay written.
func (p *AccountPublisher) Abort() {
	p.aborted.Store(true)
	p.Close()
}

// Start consumes the queue until Close, then flushes the writer.
// After the first write error the remaining accounts are drained and
// discarded so producers never block; that error is returned.
// Start must be called exactly once.
func (p *AccountPublisher) Start(ctx context.Context) error {
	defer close(p.done)

	p.logger.Debug().Str("sink", p.sink).Int("buffer", cap(p.queue)).Msg("account publisher started")

	var (
		firstErr error
		written  int
	)

	for {
		select {
		case <-ctx.Done():
			p.logger.Info().Int("written", written).Msg("account publisher shutting down")
			if firstErr != nil {
				return firstErr
			}
			return ctx.Err()

		case ev, ok := <-p.queue:
			if !ok {
				if p.aborted.Load() {
					p.logger.Debug().Str("sink", p.sink).Int("written", written).Msg("account publisher aborted")
					return firstErr
				}

				if err := p.writer.Flush(ctx); err != nil {
					p.writeFailed()
					if firstErr == nil {
						firstErr = fmt.Errorf("failed to flush %s output: %w", p.sink, err)
					}
				}

				p.logger.Debug().Str("sink", p.sink).Int("written", written).Msg("account publisher finished")
				return firstErr
			}

			if firstErr != nil || p.aborted.Load() {
				continue
			}

			if err := p.writer.WriteAccount(ctx, ev.client, ev.account); err != nil {
				p.writeFailed()
				p.logger.Error().
					Err(err).
					Str("sink", p.sink).
					Uint16("client", uint16(ev.client)).
					Msg("failed to write account")
				firstErr = fmt.Errorf("failed to write %s output: %w", p.sink, err)
				continue
			}

			written++
			if p.metrics != nil {
				p.metrics.AccountsWritten.WithLabelValues(p.sink).Inc()
			}
		}
	}
}

func (p *AccountPublisher) writeFailed() {
	if p.metrics != nil {
		p.metrics.WriteErrors.WithLabelValues(p.sink).Inc()
	}
}
