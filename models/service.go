package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Service is a billable catalog entry. Price and tax rate are copied into
// invoice items at pricing time, so later catalog edits never touch
// already-issued invoices.
type Service struct {
	Id      uint             `json:"id" gorm:"primaryKey"`
	Name    string           `json:"name" gorm:"not null"`
	Price   decimal.Decimal  `json:"price" gorm:"type:numeric(12,2)"`
	TaxRate *decimal.Decimal `json:"taxRate" gorm:"type:numeric(8,4)"`
	Active  bool             `json:"-" gorm:"default:true"`
}

// TaxRate is a named reference rate (fraction, e.g. 0.23).
type TaxRate struct {
	Id        uint            `json:"id" gorm:"primaryKey"`
	Name      string          `json:"name" gorm:"not null"`
	Rate      decimal.Decimal `json:"rate" gorm:"type:numeric(8,4);not null"`
	IsActive  bool            `json:"isActive" gorm:"default:true"`
	CreatedAt time.Time       `json:"createdAt"`
}
