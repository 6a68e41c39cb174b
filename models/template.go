package models

import "time"

// Template is uploaded document metadata; billing logic never mutates it.
type Template struct {
	Id         uint      `json:"id" gorm:"primaryKey"`
	Name       string    `json:"name" gorm:"not null"`
	FileName   string    `json:"fileName" gorm:"not null"`
	FilePath   string    `json:"filePath" gorm:"not null"`
	UploadedAt time.Time `json:"uploadedAt" gorm:"not null"`
}
