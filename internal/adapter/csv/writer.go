package csv

import (
	"context"
	stdcsv "encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/iho/txledger/internal/domain"
)

// OutputHeader is the first row of every account report.
var OutputHeader = []string{"client", "available", "held", "total", "locked"}

// Writer implements usecase.AccountWriter as CSV rows. It is not safe for
// concurrent use; the publisher's consumer goroutine owns it.
type Writer struct {
	w             *stdcsv.Writer
	headerWritten bool
	record        []string
}

// NewWriter creates a Writer emitting to dst.
func NewWriter(dst io.Writer) *Writer {
	return &Writer{
		w:      stdcsv.NewWriter(dst),
		record: make([]string, len(OutputHeader)),
	}
}

// WriteAccount writes one account row with balances rounded for display.
func (w *Writer) WriteAccount(_ context.Context, client domain.ClientID, account domain.Account) error {
	if err := w.writeHeader(); err != nil {
		return err
	}

	r := account.Rounded()
	w.record[0] = strconv.FormatUint(uint64(client), 10)
	w.record[1] = r.Available.String()
	w.record[2] = r.Held.String()
	w.record[3] = r.Total.String()
	w.record[4] = strconv.FormatBool(r.Locked)

	if err := w.w.Write(w.record); err != nil {
		return fmt.Errorf("failed to write account %d: %w", client, err)
	}
	return nil
}

// Flush writes the header if no account was written and flushes buffered rows.
func (w *Writer) Flush(_ context.Context) error {
	if err := w.writeHeader(); err != nil {
		return err
	}

	w.w.Flush()
	if err := w.w.Error(); err != nil {
		return fmt.Errorf("failed to flush output: %w", err)
	}
	return nil
}

func (w *Writer) writeHeader() error {
	if w.headerWritten {
		return nil
	}
	w.headerWritten = true

	if err := w.w.Write(OutputHeader); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	return nil
}
