package usecase_test

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/txledger/internal/domain"
	"github.com/iho/txledger/internal/usecase"
)

func TestGenerateTransactions(t *testing.T) {
	cfg := usecase.GeneratorConfig{Count: 2_000, Clients: 20, MaxAmount: 1000, Seed: 42}
	generated := usecase.GenerateTransactions(cfg)
	require.Len(t, generated, cfg.Count)

	deposits := make(map[domain.TransactionID]domain.ClientID)
	counts := make(map[domain.TransactionType]int)

	for _, tx := range generated {
		counts[tx.Type]++
		assert.GreaterOrEqual(t, int(tx.Client), 1)
		assert.LessOrEqual(t, int(tx.Client), int(cfg.Clients))

		switch tx.Type {
		case domain.TransactionTypeDeposit:
			_, dup := deposits[tx.ID]
			require.False(t, dup, "deposit id %d reused", tx.ID)
			deposits[tx.ID] = tx.Client
			assert.True(t, tx.Amount.GreaterThanOrEqual(decimal.RequireFromString("0.01")))
			assert.True(t, tx.Amount.LessThanOrEqual(decimal.NewFromInt(cfg.MaxAmount)))
			assert.LessOrEqual(t, -tx.Amount.Exponent(), int32(4))
		case domain.TransactionTypeWithdrawal:
			assert.True(t, tx.Amount.IsPositive())
		default:
			owner, ok := deposits[tx.ID]
			require.True(t, ok, "%s references unknown deposit %d", tx.Type, tx.ID)
			assert.Equal(t, owner, tx.Client)
		}
	}

	assert.Greater(t, counts[domain.TransactionTypeDeposit], counts[domain.TransactionTypeWithdrawal])
	assert.Positive(t, counts[domain.TransactionTypeDispute])
	assert.Positive(t, counts[domain.TransactionTypeResolve])
	assert.Positive(t, counts[domain.TransactionTypeChargeback])
}

func TestGenerateTransactionsIsDeterministic(t *testing.T) {
	cfg := usecase.GeneratorConfig{Count: 500, Clients: 10, MaxAmount: 50, Seed: 1}
	a := usecase.GenerateTransactions(cfg)
	b := usecase.GenerateTransactions(cfg)

	require.Len(t, b, len(a))
	for i := range a {
		assert.Equal(t, a[i].String(), b[i].String())
	}

	cfg.Seed = 2
	c := usecase.GenerateTransactions(cfg)
	assert.NotEqual(t, a[0].String()+a[1].String()+a[2].String(), c[0].String()+c[1].String()+c[2].String())
}

type discardPublisher struct{}

func (discardPublisher) Publish(domain.ClientID, domain.Account) {}
func (discardPublisher) Close() {}

func BenchmarkLedgerUseCase_Load(b *testing.B) {
	generated := usecase.GenerateTransactions(usecase.DefaultGeneratorConfig())
	items := txs(generated...)

	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		uc := usecase.NewLedgerUseCase(usecase.LedgerConfig{EnforceClientMatch: true}, discardPublisher{}, zerolog.Nop(), nil)
		if _, err := uc.Load(&sliceReader{items: items}); err != nil {
			b.Fatal(err)
		}
		if err := uc.Finalize(); err != nil {
			b.Fatal(err)
		}
	}
}
