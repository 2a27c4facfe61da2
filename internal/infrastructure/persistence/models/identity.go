package models

import (
	"github.com/arghosts/affiliate-shop-sub000/internal/domain/identity"
)

// AdminModel is the persistence model for a back-office account
type AdminModel struct {
	BaseModel
	Username     string `gorm:"type:varchar(100);not null;uniqueIndex"`
	PasswordHash string `gorm:"type:varchar(255);not null"`
}

// TableName returns the table name for GORM
func (AdminModel) TableName() string {
	return "admins"
}

// ToDomain converts the persistence model to a domain Admin
func (m *AdminModel) ToDomain() *identity.Admin {
	return &identity.Admin{
		BaseEntity:   m.BaseModel.entity(),
		Username:     m.Username,
		PasswordHash: m.PasswordHash,
	}
}

// FromDomain populates the persistence model from a domain Admin
func (m *AdminModel) FromDomain(a *identity.Admin) {
	m.BaseModel = baseFrom(a.BaseEntity)
	m.Username = a.Username
	m.PasswordHash = a.PasswordHash
}
