package usecase

import (
	"math/rand/v2"

	"github.com/shopspring/decimal"

	"github.com/iho/txledger/internal/domain"
)

// GeneratorConfig sizes a synthetic workload.
type GeneratorConfig struct {
	Count   int
	Clients uint16
	// MaxAmount is the largest deposit, in whole units. Withdrawals draw up to half of it.
	MaxAmount int64
	Seed      uint64
}

// DefaultGeneratorConfig mirrors the benchmark workload: 100k records over every client id.
func DefaultGeneratorConfig() GeneratorConfig {
	return GeneratorConfig{
		Count:     100_000,
		Clients:   ^uint16(0),
		MaxAmount: 1000,
	}
}

type ref struct {
	id     domain.TransactionID
	client domain.ClientID
}

// GenerateTransactions builds a reproducible, well-formed transaction stream:
// about half deposits, a fifth withdrawals, and disputes, resolves and
// chargebacks that only reference earlier deposits of the same client.
func GenerateTransactions(cfg GeneratorConfig) []domain.Transaction {
	if cfg.Clients == 0 {
		cfg.Clients = 1
	}
	if cfg.MaxAmount <= 0 {
		cfg.MaxAmount = 1
	}

	rng := rand.New(rand.NewPCG(cfg.Seed, cfg.Seed^0x9e3779b97f4a7c15))
	txs := make([]domain.Transaction, 0, cfg.Count)

	var deposits, disputes []ref
	take := func(pool *[]ref) ref {
		i := rng.IntN(len(*pool))
		r := (*pool)[i]
		(*pool)[i] = (*pool)[len(*pool)-1]
		*pool = (*pool)[:len(*pool)-1]
		return r
	}

	for n := 1; len(txs) < cfg.Count; n++ {
		id := domain.TransactionID(n)
		client := domain.ClientID(rng.IntN(int(cfg.Clients)) + 1)

		switch x := rng.Float64(); {
		case x < 0.5:
			txs = append(txs, domain.Deposit(client, id, randomAmount(rng, cfg.MaxAmount)))
			deposits = append(deposits, ref{id: id, client: client})
		case x < 0.7:
			txs = append(txs, domain.Withdrawal(client, id, randomAmount(rng, cfg.MaxAmount/2+1)))
		case x < 0.8:
			if len(deposits) == 0 {
				continue
			}
			r := take(&deposits)
			txs = append(txs, domain.Dispute(r.client, r.id))
			disputes = append(disputes, r)
		case x < 0.95:
			if len(disputes) == 0 {
				continue
			}
			r := take(&disputes)
			txs = append(txs, domain.Resolve(r.client, r.id))
		default:
			if len(disputes) == 0 {
				continue
			}
			r := take(&disputes)
			txs = append(txs, domain.Chargeback(r.client, r.id))
		}
	}

	return txs
}

// randomAmount returns a value in [0.01, limit] with four decimal places.
func randomAmount(rng *rand.Rand, limit int64) decimal.Decimal {
	const scale = 10_000
	lo := int64(scale / 100)
	units := lo + rng.Int64N(limit*scale-lo+1)
	return decimal.New(units, -4)
}
