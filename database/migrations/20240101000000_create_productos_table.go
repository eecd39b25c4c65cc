package migrations

import (
	"github.com/shashiranjanraj/inventario/app/models"
	"github.com/shashiranjanraj/inventario/pkg/migration"
	"gorm.io/gorm"
)

func init() {
	migration.Register("20240101000000_create_productos_table", &CreateProductosTable{})
}

type CreateProductosTable struct{}

func (m *CreateProductosTable) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.Product{})
}

func (m *CreateProductosTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable(&models.Product{})
}
