package models

import (
	"gorm.io/gorm"
)

type User struct {
	gorm.Model
	ExternalID  string `gorm:"uniqueIndex"`
	FirstName   string
	LastName    string
	Email       string
	MobilePhone string
	IsAdmin     bool
}
