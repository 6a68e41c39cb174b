package billing

import (
	"errors"
	"testing"
	"time"

	"crm-backend/models"
)

func TestSettled(t *testing.T) {
	cases := []struct {
		name  string
		paid  string
		total string
		want  bool
	}{
		{"unpaid", "0", "246.00", false},
		{"partial", "100.00", "246.00", false},
		{"exact", "246.00", "246.00", true},
		{"overpaid", "300.00", "246.00", true},
		{"zero total", "0", "0", true},
		{"cent short", "245.99", "246.00", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Settled(dec(tc.paid), dec(tc.total))
			if got != tc.want {
				t.Fatalf("Settled(%s, %s): expected %v got %v", tc.paid, tc.total, tc.want, got)
			}
		})
	}
}

func TestPaidTotal(t *testing.T) {
	payments := []models.Payment{
		{Amount: dec("100.00")},
		{Amount: dec("46.00")},
		{Amount: dec("100.00")},
	}
	if got := PaidTotal(payments); got.StringFixed(2) != "246.00" {
		t.Fatalf("expected 246.00 got %s", got)
	}
	if got := PaidTotal(nil); !got.IsZero() {
		t.Fatalf("expected zero for no payments, got %s", got)
	}
}

// The settlement invariant: after any sequence of payment mutations, the flag
// must equal (Σ remaining payments >= total).
func TestSettlementSequence(t *testing.T) {
	total := dec("246.00")
	var payments []models.Payment

	check := func(step string, wantPaid bool) {
		t.Helper()
		got := Settled(PaidTotal(payments), total)
		if got != wantPaid {
			t.Fatalf("%s: expected isPaid=%v got %v (paid %s of %s)",
				step, wantPaid, got, PaidTotal(payments), total)
		}
	}

	check("no payments", false)

	payments = append(payments, models.Payment{Id: 1, Amount: dec("246.00")})
	check("full payment recorded", true)

	// Shrink the payment; the flag must drop.
	payments[0].Amount = dec("200.00")
	check("payment reduced", false)

	payments = append(payments, models.Payment{Id: 2, Amount: dec("46.00")})
	check("second payment tops up", true)

	// Delete the second payment again.
	payments = payments[:1]
	check("payment deleted", false)

	// Delete the only remaining payment on what was once a paid invoice.
	payments = nil
	check("last payment deleted", false)
}

func TestRecordPaymentRejectsNonPositiveAmounts(t *testing.T) {
	for _, amount := range []string{"0", "-1", "-0.01"} {
		if dec(amount).IsPositive() {
			t.Fatalf("test setup: %s should not be positive", amount)
		}
		// RecordPayment validates before touching the database, so a nil
		// transaction never gets dereferenced for these inputs.
		_, err := RecordPayment(nil, 1, dec(amount), time.Time{})
		var inv *ValidationError
		if !errors.As(err, &inv) {
			t.Fatalf("expected ValidationError for amount %s, got %v", amount, err)
		}
	}
}
