package models

import (
	"gorm.io/gorm"
)

type Kitchen struct {
	gorm.Model
	Name     string `gorm:"uniqueIndex;not null" json:"name"`
	Location string `json:"location"`
	Active   bool   `gorm:"not null;default:true" json:"active"`
}
