package types

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
)

func TestMoneyRoundsHalfUpAtSerialization(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "0.085", want: "0.09"},
		{in: "0.084", want: "0.08"},
		{in: "52.5", want: "52.50"},
		{in: "6", want: "6.00"},
		{in: "10.884", want: "10.88"},
		{in: "0", want: "0.00"},
	}

	for _, tt := range tests {
		m := NewMoney(decimal.RequireFromString(tt.in))
		if got := m.String(); got != tt.want {
			t.Fatalf("%s: expected %s got %s", tt.in, tt.want, got)
		}
		raw, err := json.Marshal(m)
		if err != nil {
			t.Fatalf("%s: marshal: %v", tt.in, err)
		}
		if string(raw) != `"`+tt.want+`"` {
			t.Fatalf("%s: expected json %q got %s", tt.in, tt.want, raw)
		}
	}
}

func TestRoundMoney(t *testing.T) {
	got := RoundMoney(decimal.RequireFromString("10.885"))
	if !got.Equal(decimal.RequireFromString("10.89")) {
		t.Fatalf("expected 10.89 got %s", got)
	}
}

func TestMoneyMarshalsInsideStructs(t *testing.T) {
	payload := struct {
		Total Money `json:"total"`
	}{Total: NewMoney(decimal.RequireFromString("113"))}

	raw, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(raw) != `{"total":"113.00"}` {
		t.Fatalf("unexpected payload %s", raw)
	}
}
