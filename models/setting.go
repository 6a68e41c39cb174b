package models

// Setting is a key/value row holding company-wide configuration
// (company name, address, NIP, bank account, contract prefix, ...).
type Setting struct {
	Id    uint   `json:"id" gorm:"primaryKey"`
	Key   string `json:"key" gorm:"size:100;uniqueIndex;not null"`
	Value string `json:"value" gorm:"type:text"`
}
