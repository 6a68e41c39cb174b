package billing

import (
	"errors"
	"testing"

	"crm-backend/models"

	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func catalogOf(services ...models.Service) ServiceLookup {
	byId := make(map[uint]models.Service, len(services))
	for _, svc := range services {
		byId[svc.Id] = svc
	}
	return func(id uint) (*models.Service, error) {
		svc, ok := byId[id]
		if !ok {
			return nil, nil
		}
		return &svc, nil
	}
}

func rate(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func TestPriceItems(t *testing.T) {
	lookup := catalogOf(
		models.Service{Id: 1, Name: "Consulting", Price: dec("100.00")},
		models.Service{Id: 2, Name: "Hosting", Price: dec("19.99"), TaxRate: rate("0.08")},
		models.Service{Id: 3, Name: "Audit", Price: dec("500.00")},
	)

	cases := []struct {
		name      string
		lines     []Line
		wantTotal string
		wantItems int
	}{
		{"single item default tax", []Line{{ServiceId: 1, Quantity: 2}}, "246.00", 1},
		{"omitted quantity defaults to one", []Line{{ServiceId: 1}}, "123.00", 1},
		{"service tax rate wins", []Line{{ServiceId: 2, Quantity: 1}}, "21.59", 1},
		{"multiple items sum gross", []Line{{ServiceId: 1, Quantity: 2}, {ServiceId: 3, Quantity: 1}}, "861.00", 2},
		{"empty set prices to zero", nil, "0.00", 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			priced, err := PriceItems(lookup, tc.lines)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got := priced.Total.StringFixed(2); got != tc.wantTotal {
				t.Fatalf("total: expected %s got %s", tc.wantTotal, got)
			}
			if len(priced.Items) != tc.wantItems {
				t.Fatalf("items: expected %d got %d", tc.wantItems, len(priced.Items))
			}

			sum := decimal.Zero
			for _, item := range priced.Items {
				if !item.GrossAmount.Equal(item.NetAmount.Add(item.TaxAmount)) {
					t.Fatalf("gross %s != net %s + tax %s", item.GrossAmount, item.NetAmount, item.TaxAmount)
				}
				sum = sum.Add(item.GrossAmount)
			}
			if !sum.Equal(priced.Total) {
				t.Fatalf("total %s != item gross sum %s", priced.Total, sum)
			}
		})
	}
}

func TestPriceItemsWorkedExample(t *testing.T) {
	lookup := catalogOf(models.Service{Id: 1, Name: "Consulting", Price: dec("100.00"), TaxRate: rate("0.23")})

	priced, err := PriceItems(lookup, []Line{{ServiceId: 1, Quantity: 2}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	item := priced.Items[0]
	if item.NetAmount.StringFixed(2) != "200.00" {
		t.Fatalf("net: expected 200.00 got %s", item.NetAmount)
	}
	if item.TaxAmount.StringFixed(2) != "46.00" {
		t.Fatalf("tax: expected 46.00 got %s", item.TaxAmount)
	}
	if item.GrossAmount.StringFixed(2) != "246.00" {
		t.Fatalf("gross: expected 246.00 got %s", item.GrossAmount)
	}
	if item.UnitPrice.StringFixed(2) != "100.00" {
		t.Fatalf("unit price snapshot: expected 100.00 got %s", item.UnitPrice)
	}
}

func TestPriceItemsRepricingIsIdempotent(t *testing.T) {
	lookup := catalogOf(
		models.Service{Id: 1, Name: "Consulting", Price: dec("33.33")},
		models.Service{Id: 2, Name: "Hosting", Price: dec("0.07"), TaxRate: rate("0.05")},
	)
	lines := []Line{{ServiceId: 1, Quantity: 3}, {ServiceId: 2, Quantity: 7}}

	first, err := PriceItems(lookup, lines)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := PriceItems(lookup, lines)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !first.Total.Equal(second.Total) {
		t.Fatalf("repricing changed total: %s vs %s", first.Total, second.Total)
	}
}

func TestPriceItemsMissingService(t *testing.T) {
	lookup := catalogOf(models.Service{Id: 1, Name: "Consulting", Price: dec("100.00")})

	_, err := PriceItems(lookup, []Line{{ServiceId: 1}, {ServiceId: 99}})
	if err == nil {
		t.Fatal("expected error for missing service")
	}
	var nf *NotFoundError
	if !errors.As(err, &nf) || nf.Entity != "service" {
		t.Fatalf("expected service NotFoundError, got %v", err)
	}
}

func TestPriceItemsNegativeQuantity(t *testing.T) {
	lookup := catalogOf(models.Service{Id: 1, Name: "Consulting", Price: dec("100.00")})

	_, err := PriceItems(lookup, []Line{{ServiceId: 1, Quantity: -2}})
	var inv *ValidationError
	if !errors.As(err, &inv) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}
