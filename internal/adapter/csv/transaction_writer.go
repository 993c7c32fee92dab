package csv

import (
	stdcsv "encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/iho/txledger/internal/domain"
)

// InputHeader is the header of a transaction file.
var InputHeader = []string{ColumnType, ColumnClient, ColumnTx, ColumnAmount}

// TransactionWriter writes transactions in the format Reader accepts.
// Dispute, resolve and chargeback rows leave the amount column empty.
type TransactionWriter struct {
	w      *stdcsv.Writer
	record []string
}

// NewTransactionWriter writes the header to dst and returns the writer.
func NewTransactionWriter(dst io.Writer) (*TransactionWriter, error) {
	w := &TransactionWriter{
		w:      stdcsv.NewWriter(dst),
		record: make([]string, len(InputHeader)),
	}
	if err := w.w.Write(InputHeader); err != nil {
		return nil, fmt.Errorf("failed to write header: %w", err)
	}
	return w, nil
}

// Write appends one transaction row.
func (w *TransactionWriter) Write(tx domain.Transaction) error {
	w.record[0] = string(tx.Type)
	w.record[1] = strconv.FormatUint(uint64(tx.Client), 10)
	w.record[2] = strconv.FormatUint(uint64(tx.ID), 10)
	w.record[3] = ""
	if tx.Type.CarriesAmount() {
		w.record[3] = tx.Amount.String()
	}

	if err := w.w.Write(w.record); err != nil {
		return fmt.Errorf("failed to write transaction %d: %w", tx.ID, err)
	}
	return nil
}

// Flush flushes buffered rows.
func (w *TransactionWriter) Flush() error {
	w.w.Flush()
	if err := w.w.Error(); err != nil {
		return fmt.Errorf("failed to flush output: %w", err)
	}
	return nil
}
