package models

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
)

func TestCartLinesValueAndScan(t *testing.T) {
	lines := CartLines{{
		ItemID:         101,
		Name:           "Whopper",
		UnitPrice:      NewMoneyFromDecimal(decimal.RequireFromString("5.99")),
		Quantity:       2,
		RestaurantID:   1,
		RestaurantName: "Burger King",
	}}
	raw, err := lines.Value()
	if err != nil {
		t.Fatalf("value failed: %v", err)
	}

	var scanned CartLines
	if err := scanned.Scan([]byte(raw.(string))); err != nil {
		t.Fatalf("scan bytes failed: %v", err)
	}
	if len(scanned) != 1 || scanned[0].ItemID != 101 || scanned[0].Quantity != 2 {
		t.Fatalf("unexpected scanned lines: %+v", scanned)
	}
	if scanned[0].UnitPrice.String() != "5.99" {
		t.Fatalf("unit price should survive round trip, got %s", scanned[0].UnitPrice.String())
	}

	var fromString CartLines
	if err := fromString.Scan(raw); err != nil {
		t.Fatalf("scan string failed: %v", err)
	}
	if len(fromString) != 1 {
		t.Fatalf("string scan lost lines: %+v", fromString)
	}
}

func TestCartLinesNilHandling(t *testing.T) {
	var lines CartLines
	raw, err := lines.Value()
	if err != nil {
		t.Fatalf("value failed: %v", err)
	}
	if raw != "[]" {
		t.Fatalf("nil lines should persist as empty array, got %v", raw)
	}
	if err := lines.Scan(nil); err != nil {
		t.Fatalf("scan nil failed: %v", err)
	}
	if lines == nil || len(lines) != 0 {
		t.Fatalf("scan nil should produce empty lines")
	}
	if err := lines.Scan(42); err == nil {
		t.Fatalf("scan of unsupported type should fail")
	}
}

func TestCartLinesCloneIsIndependent(t *testing.T) {
	lines := CartLines{{ItemID: 1, Quantity: 1}}
	cloned := lines.Clone()
	cloned[0].Quantity = 5
	if lines[0].Quantity != 1 {
		t.Fatalf("clone should not share backing array")
	}
}

func TestMoneyJSONUsesTwoDecimals(t *testing.T) {
	m := NewMoneyFromDecimal(decimal.RequireFromString("12.995"))
	b, err := json.Marshal(m)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if string(b) != `"13.00"` {
		t.Fatalf("unexpected money json: %s", b)
	}
	var parsed Money
	if err := json.Unmarshal([]byte(`2.999`), &parsed); err != nil {
		t.Fatalf("unmarshal number failed: %v", err)
	}
	if parsed.String() != "3.00" {
		t.Fatalf("unexpected parsed money: %s", parsed.String())
	}
}
