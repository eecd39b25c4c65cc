package models

import "time"

// Product is a catalogue item with its on-hand stock. Stock only changes
// through an administrative update or an order placement.
type Product struct {
	ID        uint      `gorm:"primaryKey;autoIncrement"                              json:"id"`
	Name      string    `gorm:"column:nombre;size:255;not null;index"                 json:"nombre"`
	Price     float64   `gorm:"column:precio;not null;default:0;check:precio >= 0"    json:"precio"`
	Stock     int       `gorm:"column:stock;not null;default:0;check:stock >= 0"      json:"stock"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

func (Product) TableName() string { return "productos" }
