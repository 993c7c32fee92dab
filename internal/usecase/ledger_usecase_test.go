package usecase_test

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/iho/txledger/internal/domain"
	"github.com/iho/txledger/internal/infrastructure/metrics"
	"github.com/iho/txledger/internal/usecase"
	"github.com/iho/txledger/internal/usecase/mocks"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

type readItem struct {
	tx  domain.Transaction
	err error
}

type sliceReader struct {
	items []readItem
	pos   int
}

func newSliceReader(items ...readItem) *sliceReader {
	return &sliceReader{items: items}
}

func txs(list ...domain.Transaction) []readItem {
	items := make([]readItem, 0, len(list))
	for _, tx := range list {
		items = append(items, readItem{tx: tx})
	}
	return items
}

func (r *sliceReader) Read() (domain.Transaction, error) {
	if r.pos >= len(r.items) {
		return domain.Transaction{}, io.EOF
	}
	it := r.items[r.pos]
	r.pos++
	return it.tx, it.err
}

func decodeErr(kind domain.DecodeErrorKind, line int) readItem {
	de := domain.NewDecodeError(kind, "", nil)
	de.Line = line
	return readItem{err: de}
}

// capturePublisher records everything published through a gomock publisher.
func capturePublisher(t *testing.T, ctrl *gomock.Controller) (*mocks.MockAccountPublisher, map[domain.ClientID]domain.Account) {
	t.Helper()

	published := make(map[domain.ClientID]domain.Account)
	pub := mocks.NewMockAccountPublisher(ctrl)
	pub.EXPECT().Publish(gomock.Any(), gomock.Any()).
		Do(func(client domain.ClientID, account domain.Account) {
			_, dup := published[client]
			require.False(t, dup, "client %d published twice", client)
			published[client] = account
		}).
		AnyTimes()
	return pub, published
}

func TestLedgerUseCase_LoadAndFinalize(t *testing.T) {
	ctrl := gomock.NewController(t)
	pub, published := capturePublisher(t, ctrl)
	pub.EXPECT().Close().Times(1)

	uc := usecase.NewLedgerUseCase(usecase.LedgerConfig{EnforceClientMatch: true}, pub, zerolog.Nop(), nil)

	stats, err := uc.Load(newSliceReader(txs(
		domain.Deposit(1, 1, d("1.0")),
		domain.Deposit(2, 2, d("2.0")),
		domain.Deposit(1, 3, d("2.0")),
		domain.Withdrawal(1, 4, d("1.5")),
		domain.Withdrawal(2, 5, d("3.0")),
	)...))
	require.NoError(t, err)
	assert.Equal(t, usecase.Stats{Records: 5, Applied: 4, Ignored: 1, Accounts: 2}, stats)

	require.NoError(t, uc.Finalize())
	require.Len(t, published, 2)
	assert.True(t, published[1].Available.Equal(d("1.5")))
	assert.True(t, published[2].Available.Equal(d("2")))

	assert.ErrorIs(t, uc.Finalize(), usecase.ErrAlreadyFinalized)
}

func TestLedgerUseCase_PermissiveSkipsDecodeErrors(t *testing.T) {
	ctrl := gomock.NewController(t)
	pub := mocks.NewMockAccountPublisher(ctrl)

	var logs bytes.Buffer
	logger := zerolog.New(&logs)

	uc := usecase.NewLedgerUseCase(usecase.LedgerConfig{}, pub, logger, nil)

	items := append(txs(domain.Deposit(1, 1, d("1"))),
		decodeErr(domain.KindMissingAmount, 3),
		decodeErr(domain.KindInvalidTransactionType, 4),
	)
	items = append(items, txs(domain.Deposit(1, 2, d("2")))...)

	stats, err := uc.Load(newSliceReader(items...))
	require.NoError(t, err)
	assert.Equal(t, 4, stats.Records)
	assert.Equal(t, 2, stats.DecodeErrors)
	assert.Equal(t, 2, stats.Applied)

	acc := uc.Accounts()[1]
	assert.True(t, acc.Available.Equal(d("3")))

	assert.Contains(t, logs.String(), "skipping invalid record")
	assert.Contains(t, logs.String(), `"kind":"missing_amount"`)
	assert.Contains(t, logs.String(), `"line":4`)
}

func TestLedgerUseCase_StrictAbortsOnFirstDecodeError(t *testing.T) {
	ctrl := gomock.NewController(t)
	pub := mocks.NewMockAccountPublisher(ctrl)

	uc := usecase.NewLedgerUseCase(usecase.LedgerConfig{Strict: true}, pub, zerolog.Nop(), nil)

	items := append(txs(domain.Deposit(1, 1, d("1"))), decodeErr(domain.KindNegativeAmount, 3))
	items = append(items, txs(domain.Deposit(1, 2, d("2")))...)

	stats, err := uc.Load(newSliceReader(items...))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNegativeAmount)
	assert.Equal(t, 1, stats.Applied)
	assert.Equal(t, 1, stats.DecodeErrors)

	acc := uc.Accounts()[1]
	assert.True(t, acc.Available.Equal(d("1")), "records after the error must not be applied")
}

func TestLedgerUseCase_FatalReadError(t *testing.T) {
	ctrl := gomock.NewController(t)
	pub := mocks.NewMockAccountPublisher(ctrl)
	reader := mocks.NewMockTransactionReader(ctrl)

	boom := errors.New("disk gone")
	gomock.InOrder(
		reader.EXPECT().Read().Return(domain.Deposit(1, 1, d("1")), nil),
		reader.EXPECT().Read().Return(domain.Transaction{}, boom),
	)

	registry := prometheus.NewRegistry()
	m := metrics.New(registry)

	uc := usecase.NewLedgerUseCase(usecase.LedgerConfig{}, pub, zerolog.Nop(), m)
	stats, err := uc.Load(reader)
	require.ErrorIs(t, err, boom)

	// the failed read is not a record
	assert.Equal(t, 1, stats.Records)
	assert.Equal(t, 1, stats.Applied)
	assert.Equal(t, 1, stats.Accounts)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RecordsRead))
}

func TestLedgerUseCase_LoadReturnsAccountCount(t *testing.T) {
	ctrl := gomock.NewController(t)
	pub := mocks.NewMockAccountPublisher(ctrl)

	uc := usecase.NewLedgerUseCase(usecase.LedgerConfig{}, pub, zerolog.Nop(), nil)

	stats, err := uc.Load(newSliceReader(txs(
		domain.Deposit(1, 1, d("1")),
		domain.Deposit(2, 2, d("1")),
	)...))
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Accounts)
	assert.Equal(t, uc.Stats(), stats)
}

func TestLedgerUseCase_EarlyEmit(t *testing.T) {
	ctrl := gomock.NewController(t)
	pub := mocks.NewMockAccountPublisher(ctrl)

	var order []domain.ClientID
	record := func(client domain.ClientID, account domain.Account) {
		order = append(order, client)
	}

	// the locked account goes out during Load, before any other account
	lockedPublish := pub.EXPECT().Publish(domain.ClientID(1), gomock.Any()).Do(record).Times(1)
	otherPublish := pub.EXPECT().Publish(domain.ClientID(2), gomock.Any()).Do(record).Times(1).After(lockedPublish)
	pub.EXPECT().Close().Times(1).After(otherPublish)

	uc := usecase.NewLedgerUseCase(usecase.LedgerConfig{EarlyEmit: true, EnforceClientMatch: true}, pub, zerolog.Nop(), nil)

	stats, err := uc.Load(newSliceReader(txs(
		domain.Deposit(1, 1, d("1.0")),
		domain.Dispute(1, 1),
		domain.Chargeback(1, 1),
		domain.Deposit(2, 2, d("4.0")),
		domain.Deposit(1, 3, d("9.0")),
	)...))
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Locked)
	assert.Equal(t, []domain.ClientID{1}, order, "locked account should be emitted during load")

	require.NoError(t, uc.Finalize())
	assert.Equal(t, []domain.ClientID{1, 2}, order)
}

func TestLedgerUseCase_WithoutEarlyEmitLockedAccountsPublishedAtFinalize(t *testing.T) {
	ctrl := gomock.NewController(t)
	pub, published := capturePublisher(t, ctrl)
	pub.EXPECT().Close().Times(1)

	uc := usecase.NewLedgerUseCase(usecase.LedgerConfig{EnforceClientMatch: true}, pub, zerolog.Nop(), nil)

	_, err := uc.Load(newSliceReader(txs(
		domain.Deposit(1, 1, d("1.0")),
		domain.Dispute(1, 1),
		domain.Chargeback(1, 1),
	)...))
	require.NoError(t, err)
	assert.Empty(t, published)

	require.NoError(t, uc.Finalize())
	require.Len(t, published, 1)
	assert.True(t, published[1].Locked)
	assert.True(t, published[1].Total().IsZero())
}

func TestLedgerUseCase_Metrics(t *testing.T) {
	ctrl := gomock.NewController(t)
	pub := mocks.NewMockAccountPublisher(ctrl)

	registry := prometheus.NewRegistry()
	m := metrics.New(registry)

	uc := usecase.NewLedgerUseCase(usecase.LedgerConfig{EnforceClientMatch: true}, pub, zerolog.Nop(), m)

	items := txs(
		domain.Deposit(1, 1, d("1.0")),
		domain.Withdrawal(1, 2, d("5.0")),
		domain.Dispute(1, 1),
		domain.Chargeback(1, 1),
	)
	items = append(items, decodeErr(domain.KindMalformedRow, 6))

	_, err := uc.Load(newSliceReader(items...))
	require.NoError(t, err)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.Transactions.WithLabelValues("deposit", "applied")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Transactions.WithLabelValues("withdrawal", "insufficient_funds")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.DecodeErrors.WithLabelValues("malformed_row")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.AccountsLocked))
	assert.Equal(t, 5.0, testutil.ToFloat64(m.RecordsRead))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Accounts))
}

func TestLedgerUseCase_GeneratedWorkloadKeepsInvariants(t *testing.T) {
	ctrl := gomock.NewController(t)
	pub, published := capturePublisher(t, ctrl)
	pub.EXPECT().Close().Times(1)

	cfg := usecase.GeneratorConfig{Count: 5_000, Clients: 50, MaxAmount: 1000, Seed: 7}
	uc := usecase.NewLedgerUseCase(usecase.LedgerConfig{EnforceClientMatch: true}, pub, zerolog.Nop(), nil)

	stats, err := uc.Load(newSliceReader(txs(usecase.GenerateTransactions(cfg)...)...))
	require.NoError(t, err)
	assert.Equal(t, cfg.Count, stats.Records)
	assert.Equal(t, stats.Records, stats.Applied+stats.Ignored)

	require.NoError(t, uc.Finalize())
	assert.Len(t, published, stats.Accounts)

	for client, acc := range published {
		assert.True(t, acc.Held.GreaterThanOrEqual(decimal.Zero), "client %d has negative held %s", client, acc.Held)
		assert.True(t, acc.Total().Equal(acc.Available.Add(acc.Held)))
	}
}
