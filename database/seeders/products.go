package seeders

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/shashiranjanraj/inventario/app/models"
	"github.com/shashiranjanraj/inventario/app/repositories"
)

// ProductSeeder inserts Total products named Producto_1..Producto_Total with
// a price in [1, 100] and stock in [1, 50], Batch rows per INSERT.
type ProductSeeder struct {
	Total    int
	Batch    int
	RandSeed uint64 // random source; zero picks a fresh one
}

func (s ProductSeeder) Seed(ctx context.Context, d Deps) error {
	if s.Batch <= 0 {
		s.Batch = 100
	}
	rng := newRand(s.RandSeed)
	repo := repositories.NewProductRepository(d.DB)

	for start := 0; start < s.Total; start += s.Batch {
		end := min(start+s.Batch, s.Total)
		batch := make([]models.Product, 0, end-start)
		for i := start; i < end; i++ {
			batch = append(batch, models.Product{
				Name:  fmt.Sprintf("Producto_%d", i+1),
				Price: math.Round((1+rng.Float64()*99)*100) / 100,
				Stock: 1 + rng.IntN(50),
			})
		}
		if err := repo.CreateBatch(ctx, batch, s.Batch); err != nil {
			return fmt.Errorf("insert products %d-%d: %w", start+1, end, err)
		}
	}
	return nil
}

func newRand(seed uint64) *rand.Rand {
	if seed == 0 {
		seed = rand.Uint64()
	}
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}
