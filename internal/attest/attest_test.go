package attest

import (
	"errors"
	"math/big"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/havona-labs/havona-sapphire/internal/registry"
)

func mustDecimal(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("bad decimal literal %q: %v", s, err)
	}
	return d
}

func TestScaleTruncates(t *testing.T) {
	cases := []struct {
		price string
		want  int64
	}{
		{"82.355001", 82355001},
		{"82.3550019", 82355001},
		{"1", 1000000},
		{"0.1", 100000},
		{"1.9999999", 1999999},
		{"3000.25", 3000250000},
		// A positive price below the scaling precision truncates to
		// zero but is still a valid entry.
		{"0.0000001", 0},
	}

	for _, tc := range cases {
		got, err := Scale(mustDecimal(t, tc.price))
		if err != nil {
			t.Fatalf("Scale(%s): unexpected error %v", tc.price, err)
		}
		if got.Cmp(big.NewInt(tc.want)) != 0 {
			t.Fatalf("Scale(%s) = %s, expected %d", tc.price, got, tc.want)
		}
	}
}

func TestScaleMonotonic(t *testing.T) {
	prices := []string{"0.000001", "0.5", "1", "1.0000001", "82.355001", "82.355002", "5000"}
	prev := big.NewInt(-1)
	for _, p := range prices {
		got, err := Scale(mustDecimal(t, p))
		if err != nil {
			t.Fatalf("Scale(%s): %v", p, err)
		}
		if got.Cmp(prev) < 0 {
			t.Fatalf("Scale not monotonic at %s: %s < %s", p, got, prev)
		}
		prev = got
	}
}

func TestScaleRejectsNonPositive(t *testing.T) {
	for _, p := range []string{"0", "-0.000001", "-82.35"} {
		if _, err := Scale(mustDecimal(t, p)); !errors.Is(err, ErrNotPositive) {
			t.Fatalf("Scale(%s): expected ErrNotPositive, got %v", p, err)
		}
	}
}

func TestBatchAlignment(t *testing.T) {
	wti := registry.New("CRUDE_OIL_WTI", "CL=F")
	gas := registry.New("NATURAL_GAS", "NG=F")

	var b Batch
	if !b.Empty() {
		t.Fatal("new batch must be empty")
	}

	b.Append(wti.ID, big.NewInt(82355001))
	b.Append(gas.ID, big.NewInt(2541000))

	if b.Len() != 2 || len(b.IDs) != len(b.Prices) {
		t.Fatalf("batch sequences misaligned: %d ids, %d prices", len(b.IDs), len(b.Prices))
	}
	if b.IDs[0] != wti.ID || b.Prices[0].Int64() != 82355001 {
		t.Fatal("entry 0 not aligned with append order")
	}
	if b.IDs[1] != gas.ID || b.Prices[1].Int64() != 2541000 {
		t.Fatal("entry 1 not aligned with append order")
	}
}
