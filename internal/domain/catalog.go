package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Category struct {
	ID   uint64 `json:"id" gorm:"primaryKey;autoIncrement"`
	Name string `json:"name" gorm:"size:120;not null;uniqueIndex"`
	Slug string `json:"slug" gorm:"size:140;not null;uniqueIndex"`
}

type Product struct {
	ID          uint64          `json:"id" gorm:"primaryKey;autoIncrement"`
	CategoryID  uint64          `json:"categoryId" gorm:"not null;index"`
	Category    *Category       `json:"category,omitempty" gorm:"foreignKey:CategoryID;constraint:OnDelete:RESTRICT"`
	Name        string          `json:"name" gorm:"size:200;not null"`
	Slug        string          `json:"slug" gorm:"size:240;not null;uniqueIndex"`
	Description string          `json:"description" gorm:"type:text"`
	Price       decimal.Decimal `json:"price" gorm:"type:decimal(12,2);not null"`
	Stock       uint            `json:"stock" gorm:"not null;default:0"`
	IsActive    bool            `json:"isActive" gorm:"not null"`
	Image       string          `json:"image" gorm:"size:255"`
	CreatedAt   time.Time       `json:"createdAt" gorm:"autoCreateTime;index"`
}
