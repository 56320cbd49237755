// Package report renders ledger exports and reads ledgers back from CSV.
package report

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"moneybot/internal/analytics"
	"moneybot/internal/core"
)

type Format string

const (
	FormatCSV Format = "CSV"
	FormatPDF Format = "PDF"
)

const (
	filenamePrefix = "moneybot_financial_report_"
	numColumns     = 5
)

var (
	Header       = []string{"Date", "Description", "Category", "Amount", "Type"}
	metricHeader = []string{"Metric", "Value"}

	ErrUnknownFormat = errors.New("unknown report format")
	ErrBadHeader     = errors.New("unexpected CSV header")
)

// ParseFormat accepts "csv" or "pdf" in any case. Empty means PDF.
func ParseFormat(s string) (Format, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "", string(FormatPDF):
		return FormatPDF, nil
	case string(FormatCSV):
		return FormatCSV, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
	}
}

// Renderable returns the format that will actually be produced. PDF layout is
// done by an external renderer, so PDF requests are served as CSV.
func (f Format) Renderable() Format {
	return FormatCSV
}

func (f Format) ContentType() string {
	if f == FormatPDF {
		return "application/pdf"
	}
	return "text/csv"
}

func (f Format) Extension() string {
	return strings.ToLower(string(f))
}

// Filename builds the attachment name for a report generated at t.
func Filename(t time.Time, f Format) string {
	return filenamePrefix + t.Format("20060102_150405") + "." + f.Extension()
}

// WriteCSV writes the transaction rows under Header, then a blank line and the
// Metric,Value block.
func WriteCSV(w io.Writer, rep analytics.Report) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(Header); err != nil {
		return err
	}
	for _, r := range rep.Rows {
		if err := cw.Write([]string{r.Date, r.Description, r.Category, r.Amount, r.Kind}); err != nil {
			return err
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return err
	}

	if _, err := io.WriteString(w, "\n"); err != nil {
		return err
	}

	if err := cw.Write(metricHeader); err != nil {
		return err
	}
	for _, m := range rep.Metrics {
		if err := cw.Write([]string{m.Name, m.Value}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadCSV parses a ledger in the export layout. Reading stops at the first
// blank line or at the Metric,Value block. Amounts may carry the rupee sign
// and thousands separators.
func ReadCSV(r io.Reader, userID string) ([]core.Transaction, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read CSV header: %w", err)
	}
	cols, err := columnIndex(header)
	if err != nil {
		return nil, err
	}

	var txs []core.Transaction
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read CSV: %w", err)
		}
		if len(rec) > 0 && strings.EqualFold(strings.TrimSpace(rec[0]), metricHeader[0]) {
			break
		}
		line, _ := cr.FieldPos(0)

		tx, err := parseRecord(rec, cols)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		tx.UserID = userID
		txs = append(txs, tx)
	}
	return txs, nil
}

func columnIndex(header []string) ([numColumns]int, error) {
	var idx [numColumns]int
	for i := range idx {
		idx[i] = -1
	}
	for i, h := range header {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		for j, want := range Header {
			if strings.EqualFold(h, want) {
				idx[j] = i
			}
		}
	}
	for j, i := range idx {
		if i < 0 {
			return idx, fmt.Errorf("%w: missing column %q", ErrBadHeader, Header[j])
		}
	}
	return idx, nil
}

func parseRecord(rec []string, cols [numColumns]int) (core.Transaction, error) {
	field := func(j int) string {
		if cols[j] >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[cols[j]])
	}

	date, err := core.ParseDate(field(0))
	if err != nil {
		return core.Transaction{}, err
	}
	amount, err := core.ParseMoney(field(3))
	if err != nil {
		return core.Transaction{}, err
	}
	kind, err := core.ParseKind(field(4))
	if err != nil {
		return core.Transaction{}, err
	}
	tx := core.Transaction{
		Date:        date,
		Description: field(1),
		Category:    field(2),
		Amount:      amount,
		Kind:        kind,
	}
	return tx, tx.Validate()
}
