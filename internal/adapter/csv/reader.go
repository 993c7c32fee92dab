package csv

import (
	stdcsv "encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/iho/txledger/internal/domain"
)

// Header column names.
const (
	ColumnType   = "type"
	ColumnClient = "client"
	ColumnTx     = "tx"
	ColumnAmount = "amount"
)

var ErrMissingColumn = errors.New("csv header is missing a required column")

type columns struct {
	typ, client, tx, amount int
	width                   int
}

// minFields is the shortest record that still carries type, client and tx.
func (c columns) minFields() int {
	return max(c.typ, c.client, c.tx) + 1
}

// Reader decodes transaction records one at a time.
// Read returns either a Transaction, a *domain.DecodeError for a bad record
// (the stream stays usable), io.EOF, or a fatal read error.
type Reader struct {
	r      *stdcsv.Reader
	cols   columns
	empty  bool
	closer io.Closer
}

// Open opens the CSV file at path. The caller must Close the reader.
func Open(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open input: %w", err)
	}

	r, err := NewReader(f)
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	r.closer = f
	return r, nil
}

// NewReader reads the header from src and returns a Reader positioned at the
// first record.
func NewReader(src io.Reader) (*Reader, error) {
	cr := stdcsv.NewReader(src)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.ReuseRecord = true

	r := &Reader{r: cr}

	for {
		header, err := cr.Read()
		if errors.Is(err, io.EOF) {
			r.empty = true
			return r, nil
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read csv header: %w", err)
		}
		if blank(header) {
			continue
		}

		cols, err := parseHeader(header)
		if err != nil {
			return nil, err
		}
		r.cols = cols
		return r, nil
	}
}

func parseHeader(header []string) (columns, error) {
	cols := columns{typ: -1, client: -1, tx: -1, amount: -1, width: len(header)}

	for i, name := range header {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case ColumnType:
			cols.typ = i
		case ColumnClient:
			cols.client = i
		case ColumnTx:
			cols.tx = i
		case ColumnAmount:
			cols.amount = i
		}
	}

	for name, idx := range map[string]int{ColumnType: cols.typ, ColumnClient: cols.client, ColumnTx: cols.tx} {
		if idx < 0 {
			return columns{}, fmt.Errorf("%w: %s", ErrMissingColumn, name)
		}
	}
	return cols, nil
}

// Read returns the next transaction.
func (r *Reader) Read() (domain.Transaction, error) {
	if r.empty {
		return domain.Transaction{}, io.EOF
	}

	for {
		rec, err := r.r.Read()
		if err != nil {
			var pe *stdcsv.ParseError
			if errors.As(err, &pe) {
				de := domain.NewDecodeError(domain.KindMalformedRow, "", pe.Err)
				de.Line = pe.Line
				return domain.Transaction{}, de
			}
			if errors.Is(err, io.EOF) {
				return domain.Transaction{}, io.EOF
			}
			return domain.Transaction{}, fmt.Errorf("failed to read input: %w", err)
		}
		if blank(rec) {
			continue
		}

		tx, err := r.decode(rec)
		if de, ok := domain.AsDecodeError(err); ok {
			de.Line, _ = r.r.FieldPos(0)
			return domain.Transaction{}, de
		}
		return tx, err
	}
}

func (r *Reader) decode(rec []string) (domain.Transaction, error) {
	if len(rec) > r.cols.width {
		return domain.Transaction{}, domain.NewDecodeError(domain.KindMalformedRow,
			fmt.Sprintf("expected at most %d fields, got %d", r.cols.width, len(rec)), nil)
	}
	if len(rec) < r.cols.minFields() {
		return domain.Transaction{}, domain.NewDecodeError(domain.KindMalformedRow,
			fmt.Sprintf("expected at least %d fields, got %d", r.cols.minFields(), len(rec)), nil)
	}

	field := func(i int) string {
		if i < 0 || i >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[i])
	}

	client, err := strconv.ParseUint(field(r.cols.client), 10, 16)
	if err != nil {
		return domain.Transaction{}, domain.NewDecodeError(domain.KindMalformedRow, "client", err)
	}

	id, err := strconv.ParseUint(field(r.cols.tx), 10, 32)
	if err != nil {
		return domain.Transaction{}, domain.NewDecodeError(domain.KindMalformedRow, "tx", err)
	}

	var amount decimal.NullDecimal
	if s := field(r.cols.amount); s != "" {
		v, err := decimal.NewFromString(s)
		if err != nil {
			return domain.Transaction{}, domain.NewDecodeError(domain.KindMalformedRow, "amount", err)
		}
		amount = decimal.NewNullDecimal(v)
	}

	return domain.NewTransaction(field(r.cols.typ), domain.ClientID(client), domain.TransactionID(id), amount)
}

// Close releases the underlying file when the reader was created by Open.
func (r *Reader) Close() error {
	if r.closer == nil {
		return nil
	}
	return r.closer.Close()
}

func blank(rec []string) bool {
	for _, f := range rec {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
