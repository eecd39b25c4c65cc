package models

import "time"

// Order records a committed stock withdrawal. Rows are written only by the
// order engine, together with the matching stock decrement, and never change.
type Order struct {
	ID        uint      `gorm:"primaryKey;autoIncrement"                     json:"id"`
	ProductID uint      `gorm:"column:producto_id;not null;index"            json:"producto_id"`
	Quantity  int       `gorm:"column:cantidad;not null;check:cantidad > 0"  json:"cantidad"`
	CreatedAt time.Time `gorm:"column:fecha;autoCreateTime;not null"         json:"fecha"`

	Product *Product `gorm:"foreignKey:ProductID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
}

func (Order) TableName() string { return "pedidos" }
