package core

import (
	"encoding/json"
	"errors"
	"testing"
	"time"
)

func TestDateValidate(t *testing.T) {
	cases := []struct {
		d  Date
		ok bool
	}{
		{NewDate(2025, 1, 1), true},
		{NewDate(2025, 12, 31), true},
		{Date{Time: time.Time{}}, false}, // zero time
	}
	for i, tc := range cases {
		err := tc.d.Validate()
		if tc.ok && err != nil {
			t.Fatalf("case %d expected ok, got %v", i, err)
		}
		if !tc.ok && err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}

func TestParseDateRoundTrip(t *testing.T) {
	d, err := ParseDate("2023-12-05")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if d.String() != "2023-12-05" || d.Day() != 5 {
		t.Fatalf("unexpected date %v", d)
	}
	if _, err := ParseDate("05/12/2023"); !errors.Is(err, ErrInvalidDate) {
		t.Fatalf("want ErrInvalidDate, got %v", err)
	}
	if !NewDate(2023, 12, 1).OnOrAfter(NewDate(2023, 12, 1)) {
		t.Fatalf("same day must count as on-or-after")
	}
	if NewDate(2023, 11, 30).OnOrAfter(NewDate(2023, 12, 1)) {
		t.Fatalf("earlier day must not count as on-or-after")
	}
}

func TestParseKind(t *testing.T) {
	for in, want := range map[string]Kind{"credit": Credit, "DEBIT": Debit, " Credit ": Credit} {
		got, err := ParseKind(in)
		if err != nil || got != want {
			t.Fatalf("%q: got %q err=%v", in, got, err)
		}
	}
	if _, err := ParseKind("transfer"); !errors.Is(err, ErrInvalidKind) {
		t.Fatalf("want ErrInvalidKind, got %v", err)
	}
}

func TestTransactionValidate(t *testing.T) {
	good := Transaction{
		Date:        NewDate(2023, 12, 1),
		Description: "Apple Store",
		Category:    "Technology",
		Amount:      Money{Cents: 99900},
		Kind:        Debit,
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	bads := []struct {
		mutate func(*Transaction)
		want   error
	}{
		{func(tx *Transaction) { tx.Date = Date{} }, ErrInvalidDate},
		{func(tx *Transaction) { tx.Description = " " }, ErrEmptyDescription},
		{func(tx *Transaction) { tx.Category = "" }, ErrEmptyCategory},
		{func(tx *Transaction) { tx.Amount = Money{} }, ErrInvalidAmount},
		{func(tx *Transaction) { tx.Amount = Money{Cents: -1} }, ErrInvalidAmount},
		{func(tx *Transaction) { tx.Kind = "refund" }, ErrInvalidKind},
	}
	for i, b := range bads {
		tx := good
		b.mutate(&tx)
		if err := tx.Validate(); !errors.Is(err, b.want) {
			t.Fatalf("case %d: want %v, got %v", i, b.want, err)
		}
	}
}

func TestSigned(t *testing.T) {
	credit := Transaction{Amount: Money{Cents: 500000}, Kind: Credit}
	debit := Transaction{Amount: Money{Cents: 1550}, Kind: Debit}
	if credit.Signed().Cents != 500000 || debit.Signed().Cents != -1550 {
		t.Fatalf("unexpected signs: %v %v", credit.Signed(), debit.Signed())
	}
}

func TestDateJSON(t *testing.T) {
	b, err := json.Marshal(struct{ D Date }{NewDate(2023, 12, 2)})
	if err != nil || string(b) != `{"D":"2023-12-02"}` {
		t.Fatalf("marshal: %s err=%v", b, err)
	}
	var out struct{ D Date }
	if err := json.Unmarshal([]byte(`{"D":"2024-02-29"}`), &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if out.D.String() != "2024-02-29" {
		t.Fatalf("got %v", out.D)
	}
	if err := json.Unmarshal([]byte(`{"D":12}`), &out); err == nil {
		t.Fatalf("expected error for non-string date")
	}
}
