package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"moneybot/internal/analytics"
	"moneybot/internal/core"
)

const maxBodyBytes = 1 << 20

var errBadRequest = errors.New("bad request")

// transactionRequest is the create payload. Amount is accepted as a JSON
// number or a numeric string and parsed exactly, without float rounding.
type transactionRequest struct {
	Date        string      `json:"date"`
	Description string      `json:"description"`
	Category    string      `json:"category"`
	Amount      json.Number `json:"amount"`
	Type        string      `json:"type"`
}

type transactionResponse struct {
	ID          string      `json:"id"`
	UserID      string      `json:"user_id"`
	Date        core.Date   `json:"date"`
	Description string      `json:"description"`
	Category    string      `json:"category"`
	Amount      json.Number `json:"amount"`
	Type        core.Kind   `json:"type"`
}

type categoryResponse struct {
	Name   string      `json:"name"`
	Amount json.Number `json:"amount"`
}

type summaryResponse struct {
	TotalBalance      json.Number           `json:"total_balance"`
	TotalCredited     json.Number           `json:"total_credited"`
	TotalDebited      json.Number           `json:"total_debited"`
	TransactionCount  int                   `json:"transaction_count"`
	ReferenceDate     core.Date             `json:"reference_date"`
	CreditedThisMonth json.Number           `json:"credited_this_month"`
	DebitedThisMonth  json.Number           `json:"debited_this_month"`
	Categories        []categoryResponse    `json:"categories"`
	Recent            []transactionResponse `json:"recent"`
}

type chatRequest struct {
	Message string `json:"message"`
}

type chatResponse struct {
	Reply  string `json:"reply"`
	Intent string `json:"intent"`
}

type reportRequest struct {
	ReportType string `json:"report_type"`
	DateRange  string `json:"date_range"`
}

// decodeJSON reads a single JSON object from the body into dst. An empty body
// leaves dst untouched when allowEmpty is set.
func decodeJSON(r *http.Request, dst any, allowEmpty bool) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) && allowEmpty {
			return nil
		}
		return fmt.Errorf("%w: invalid JSON body", errBadRequest)
	}
	return nil
}

func (req transactionRequest) toCore() (core.Transaction, error) {
	date, err := core.ParseDate(req.Date)
	if err != nil {
		return core.Transaction{}, err
	}
	amount, err := core.ParseMoney(req.Amount.String())
	if err != nil {
		return core.Transaction{}, err
	}
	kind, err := core.ParseKind(req.Type)
	if err != nil {
		return core.Transaction{}, err
	}
	return core.Transaction{
		Date:        date,
		Description: strings.TrimSpace(req.Description),
		Category:    strings.TrimSpace(req.Category),
		Amount:      amount,
		Kind:        kind,
	}, nil
}

func amountJSON(m core.Money) json.Number {
	return json.Number(m.Decimal().StringFixed(2))
}

func toTransactionResponse(tx core.Transaction) transactionResponse {
	return transactionResponse{
		ID:          tx.ID,
		UserID:      tx.UserID,
		Date:        tx.Date,
		Description: tx.Description,
		Category:    tx.Category,
		Amount:      amountJSON(tx.Amount),
		Type:        tx.Kind,
	}
}

func toTransactionResponses(txs []core.Transaction) []transactionResponse {
	out := make([]transactionResponse, 0, len(txs))
	for _, tx := range txs {
		out = append(out, toTransactionResponse(tx))
	}
	return out
}

func toSummaryResponse(s analytics.Summary) summaryResponse {
	cats := make([]categoryResponse, 0, len(s.Categories))
	for _, c := range s.Categories {
		cats = append(cats, categoryResponse{Name: c.Name, Amount: amountJSON(c.Amount)})
	}
	return summaryResponse{
		TotalBalance:      amountJSON(s.Balance),
		TotalCredited:     amountJSON(s.TotalCredited),
		TotalDebited:      amountJSON(s.TotalDebited),
		TransactionCount:  s.TransactionCount,
		ReferenceDate:     s.ReferenceDate,
		CreditedThisMonth: amountJSON(s.CreditedThisMonth),
		DebitedThisMonth:  amountJSON(s.DebitedThisMonth),
		Categories:        cats,
		Recent:            toTransactionResponses(s.Recent),
	}
}
