package models

type Customer struct {
	Id             uint   `json:"id" gorm:"primaryKey"`
	Name           string `json:"name" gorm:"not null"`
	Email          string `json:"email"`
	Phone          string `json:"phone"`
	Company        string `json:"company"`
	Address        string `json:"address"`
	NIP            string `json:"nip"`
	Representative string `json:"representative"`
}
