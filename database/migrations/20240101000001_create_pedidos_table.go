package migrations

import (
	"github.com/shashiranjanraj/inventario/app/models"
	"github.com/shashiranjanraj/inventario/pkg/migration"
	"gorm.io/gorm"
)

func init() {
	migration.Register("20240101000001_create_pedidos_table", &CreatePedidosTable{})
}

// CreatePedidosTable creates pedidos with a RESTRICT foreign key to productos,
// so a product with orders cannot be deleted out from under them.
type CreatePedidosTable struct{}

func (m *CreatePedidosTable) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.Order{})
}

func (m *CreatePedidosTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable(&models.Order{})
}
