package models

// Group is referenced by invoices (assigned group) and contracts
// (responsible group).
type Group struct {
	Id   uint   `json:"id" gorm:"primaryKey"`
	Name string `json:"name" gorm:"not null;unique"`
}
