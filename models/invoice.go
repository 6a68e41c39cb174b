package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Invoice is the current state of a billed document. TotalAmount equals the
// sum of item gross amounts unless it was set manually, and IsPaid is derived
// from the payment sum by the settlement ledger, never taken from clients.
type Invoice struct {
	Id         uint     `json:"id" gorm:"primaryKey"`
	Number     string   `json:"invoiceNumber" gorm:"unique"`
	CustomerId uint     `json:"customerId"`
	Customer   Customer `json:"customer" gorm:"foreignKey:CustomerId;references:Id"`

	Items       []InvoiceItem   `json:"items" gorm:"foreignKey:InvoiceId;constraint:OnDelete:CASCADE"`
	TotalAmount decimal.Decimal `json:"totalAmount" gorm:"type:numeric(12,2)"`
	IsPaid      bool            `json:"isPaid"`

	IssuedAt time.Time  `json:"issuedAt"`
	DueDate  *time.Time `json:"dueDate"`

	CreatedByUserId string `json:"createdByUserId"`
	AssignedGroupId *uint  `json:"assignedGroupId"`

	CreatedAt time.Time `json:"createdAt"`
}

type InvoiceItem struct {
	Id        uint    `json:"id" gorm:"primaryKey"`
	InvoiceId uint    `json:"-" gorm:"index"`
	ServiceId uint    `json:"serviceId" gorm:"not null;index"`
	Service   Service `json:"-" gorm:"foreignKey:ServiceId;references:Id;constraint:OnUpdate:RESTRICT,OnDelete:RESTRICT"`

	Description string `json:"description"`
	Quantity    int    `json:"quantity"`

	// Snapshot of the catalog at pricing time.
	UnitPrice decimal.Decimal `json:"unitPrice" gorm:"type:numeric(12,2)"`
	TaxRate   decimal.Decimal `json:"taxRate" gorm:"type:numeric(8,4)"`

	NetAmount   decimal.Decimal `json:"netAmount" gorm:"type:numeric(12,2)"`
	TaxAmount   decimal.Decimal `json:"taxAmount" gorm:"type:numeric(12,2)"`
	GrossAmount decimal.Decimal `json:"grossAmount" gorm:"type:numeric(12,2)"`
}

// Payment references its invoice without owning it; deleting a payment leaves
// the invoice in place and only triggers a settlement recompute.
type Payment struct {
	Id        uint            `json:"id" gorm:"primaryKey"`
	InvoiceId uint            `json:"invoiceId" gorm:"index:idx_payments_invoice_paid_at,priority:1"`
	Amount    decimal.Decimal `json:"amount" gorm:"type:numeric(12,2)"`
	PaidAt    time.Time       `json:"paymentDate" gorm:"index:idx_payments_invoice_paid_at,priority:2"`
	CreatedAt time.Time       `json:"createdAt"`
}
