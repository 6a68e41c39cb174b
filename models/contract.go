package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Contract holds a service agreement. NetAmount equals the sum of attached
// service prices times quantities unless it was set manually.
type Contract struct {
	Id             uint     `json:"id" gorm:"primaryKey"`
	Title          string   `json:"title" gorm:"not null"`
	ContractNumber string   `json:"contractNumber"`
	CustomerId     uint     `json:"customerId" gorm:"not null"`
	Customer       Customer `json:"-" gorm:"foreignKey:CustomerId;references:Id"`

	SignedAt  *time.Time `json:"signedAt"`
	StartDate *time.Time `json:"startDate"`
	EndDate   *time.Time `json:"endDate"`

	NetAmount       decimal.Decimal `json:"netAmount" gorm:"type:numeric(12,2)"`
	PaymentTermDays *int            `json:"paymentTermDays"`
	ScopeOfServices string          `json:"scopeOfServices" gorm:"type:text"`
	PlaceOfSigning  string          `json:"placeOfSigning"`

	Services []ContractService `json:"services" gorm:"foreignKey:ContractId;constraint:OnDelete:CASCADE"`

	CreatedByUserId    string `json:"createdByUserId"`
	ResponsibleGroupId *uint  `json:"responsibleGroupId"`
}

// ContractService is the contract↔service link carrying a quantity.
type ContractService struct {
	ContractId uint    `json:"-" gorm:"primaryKey;autoIncrement:false"`
	ServiceId  uint    `json:"serviceId" gorm:"primaryKey;autoIncrement:false"`
	Service    Service `json:"-" gorm:"foreignKey:ServiceId;references:Id;constraint:OnUpdate:RESTRICT,OnDelete:RESTRICT"`
	Quantity   int     `json:"quantity" gorm:"not null;default:1"`
}
