package seeders

// Products must exist before orders can be placed against them; both live
// in one init so the run order does not depend on file names.
func init() {
	Register("productos", ProductSeeder{Total: 1000, Batch: 100}.Seed)
	Register("pedidos", OrderSeeder{Total: 10000, Products: 1000, Workers: 8}.Seed)
}
