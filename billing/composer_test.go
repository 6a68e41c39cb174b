package billing

import (
	"errors"
	"testing"
	"time"

	"crm-backend/models"
)

func TestContractNet(t *testing.T) {
	lookup := catalogOf(
		models.Service{Id: 1, Name: "Development", Price: dec("500.00")},
		models.Service{Id: 2, Name: "Support", Price: dec("50.00")},
	)

	cases := []struct {
		name  string
		lines []Line
		want  string
	}{
		{"spec example", []Line{{ServiceId: 1, Quantity: 1}, {ServiceId: 2, Quantity: 3}}, "650.00"},
		{"omitted quantity defaults to one", []Line{{ServiceId: 2}}, "50.00"},
		{"no services", nil, "0.00"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			net, err := ContractNet(lookup, tc.lines)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got := net.StringFixed(2); got != tc.want {
				t.Fatalf("expected %s got %s", tc.want, got)
			}
		})
	}
}

func TestContractNetMissingService(t *testing.T) {
	lookup := catalogOf(models.Service{Id: 1, Name: "Development", Price: dec("500.00")})

	_, err := ContractNet(lookup, []Line{{ServiceId: 1}, {ServiceId: 42}})
	var nf *NotFoundError
	if !errors.As(err, &nf) || nf.Entity != "service" {
		t.Fatalf("expected service NotFoundError, got %v", err)
	}
}

func testContract() *models.Contract {
	signed := time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC)
	start := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC)
	term := 30
	return &models.Contract{
		Id:              7,
		Title:           "Website maintenance",
		ContractNumber:  "UM/2025/7",
		SignedAt:        &signed,
		StartDate:       &start,
		EndDate:         &end,
		NetAmount:       dec("650.00"),
		PaymentTermDays: &term,
		ScopeOfServices: "Monthly maintenance and support",
		PlaceOfSigning:  "Warszawa",
	}
}

func testCustomer() *models.Customer {
	return &models.Customer{
		Id:             3,
		Name:           "Jan Kowalski",
		Company:        "Kowalski Sp. z o.o.",
		Address:        "ul. Polna 1, 00-001 Warszawa",
		NIP:            "1234567890",
		Representative: "Jan Kowalski",
		Email:          "jan@example.com",
		Phone:          "+48 600 000 000",
	}
}

func TestTokenMap(t *testing.T) {
	now := time.Date(2025, 3, 14, 10, 30, 0, 0, time.UTC)
	settings := map[string]string{
		"CompanyName":        "Moja Firma Sp. z o.o.",
		"CompanyNIP":         "9876543210",
		"CompanyBankAccount": "12 3456 7890",
	}

	tokens := TokenMap(testContract(), testCustomer(), settings, now)

	want := map[string]string{
		"CONTRACT_NUMBER":      "UM/2025/7",
		"CONTRACT_TITLE":       "Website maintenance",
		"SIGNED_DATE":          "05.01.2025",
		"START_DATE":           "01.02.2025",
		"END_DATE":             "31.12.2025",
		"CURRENT_DATE":         "14.03.2025",
		"NET_AMOUNT":           "650.00",
		"PAYMENT_TERM_DAYS":    "30",
		"CUSTOMER_NAME":        "Kowalski Sp. z o.o.",
		"CUSTOMER_NIP":         "1234567890",
		"COMPANY_NAME":         "Moja Firma Sp. z o.o.",
		"COMPANY_BANK_ACCOUNT": "12 3456 7890",
	}
	for name, value := range want {
		if tokens[name] != value {
			t.Fatalf("token %s: expected %q got %q", name, value, tokens[name])
		}
	}
}

func TestTokenMapDefaults(t *testing.T) {
	now := time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC)

	contract := testContract()
	contract.ContractNumber = ""
	contract.SignedAt = nil
	contract.PaymentTermDays = nil

	customer := testCustomer()
	customer.Company = ""

	tokens := TokenMap(contract, customer, map[string]string{}, now)

	if got := tokens["CONTRACT_NUMBER"]; got != "UM/2025/7" {
		t.Fatalf("generated contract number: expected UM/2025/7 got %q", got)
	}
	if got := tokens["SIGNED_DATE"]; got != "14.03.2025" {
		t.Fatalf("signed date fallback: expected 14.03.2025 got %q", got)
	}
	if got := tokens["PAYMENT_TERM_DAYS"]; got != "14" {
		t.Fatalf("payment term fallback: expected 14 got %q", got)
	}
	if got := tokens["CUSTOMER_NAME"]; got != "Jan Kowalski" {
		t.Fatalf("customer name fallback: expected Jan Kowalski got %q", got)
	}

	withPrefix := TokenMap(contract, customer, map[string]string{"ContractPrefix": "KTR"}, now)
	if got := withPrefix["CONTRACT_NUMBER"]; got != "KTR/2025/7" {
		t.Fatalf("prefixed contract number: expected KTR/2025/7 got %q", got)
	}
}

func TestTokenMapIsDeterministic(t *testing.T) {
	now := time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC)
	settings := map[string]string{"CompanyName": "Moja Firma"}

	first := TokenMap(testContract(), testCustomer(), settings, now)
	second := TokenMap(testContract(), testCustomer(), settings, now)

	if len(first) != len(second) {
		t.Fatalf("token maps differ in size: %d vs %d", len(first), len(second))
	}
	for name, value := range first {
		if second[name] != value {
			t.Fatalf("token %s differs across calls: %q vs %q", name, value, second[name])
		}
	}
}

func TestDocumentFileName(t *testing.T) {
	now := time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC)

	contract := testContract()
	if got := documentFileName(contract, now, ".docx"); got != "umowa_UM-2025-7_20250314.docx" {
		t.Fatalf("expected umowa_UM-2025-7_20250314.docx got %q", got)
	}

	contract.ContractNumber = ""
	if got := documentFileName(contract, now, ".txt"); got != "umowa_7_20250314.txt" {
		t.Fatalf("expected umowa_7_20250314.txt got %q", got)
	}
}
