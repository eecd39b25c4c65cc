package seeders

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/shashiranjanraj/inventario/app/services"
	"github.com/shashiranjanraj/inventario/config"
	"github.com/shashiranjanraj/inventario/pkg/workerpool"
)

// OrderSeeder places Total synthetic orders through the order engine: order i
// targets product (i % Products) + 1 with a quantity in [1, 5]. Orders for
// missing products or short stock are skipped, exactly as a client would see
// them rejected.
type OrderSeeder struct {
	Total    int
	Products int
	Workers  int
	RandSeed uint64
}

// OrderStats counts seeder outcomes.
type OrderStats struct {
	Placed       int64
	NotFound     int64
	Insufficient int64
}

func (s OrderSeeder) Seed(ctx context.Context, d Deps) error {
	stats, err := s.Place(ctx, d)
	if err != nil {
		return err
	}
	fmt.Fprintf(d.Out, "(%d placed, %d skipped: sin stock, %d skipped: sin producto) ",
		stats.Placed, stats.Insufficient, stats.NotFound)
	return nil
}

// Place runs the seeder and returns its stats. The first storage failure
// cancels the remaining orders and is returned.
func (s OrderSeeder) Place(ctx context.Context, d Deps) (OrderStats, error) {
	var stats OrderStats
	if s.Products <= 0 || s.Total <= 0 {
		return stats, nil
	}

	svc := services.NewOrderService(d.DB, d.Cache, services.OrderServiceConfig{
		Timeout:           config.OrderTimeout(),
		LowStockThreshold: config.LowStockThreshold(),
	})

	// math/rand is not safe for concurrent use; draw quantities up front.
	rng := newRand(s.RandSeed)
	quantities := make([]int, s.Total)
	for i := range quantities {
		quantities[i] = 1 + rng.IntN(5)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		once     sync.Once
		firstErr error
		placed   atomic.Int64
		notFound atomic.Int64
		short    atomic.Int64
	)
	fail := func(err error) {
		once.Do(func() {
			firstErr = err
			cancel()
		})
	}

	pool := workerpool.New(s.Workers)
	for i := 0; i < s.Total; i++ {
		productID := uint(i%s.Products) + 1
		qty := quantities[i]
		err := pool.SubmitCtx(ctx, func() {
			if ctx.Err() != nil {
				return
			}
			_, err := svc.PlaceOrder(ctx, productID, qty)
			switch {
			case err == nil:
				placed.Add(1)
			case errors.Is(err, services.ErrProductNotFound):
				notFound.Add(1)
			case errors.Is(err, services.ErrInsufficientStock):
				short.Add(1)
			default:
				fail(err)
			}
		})
		if err != nil {
			fail(err)
			break
		}
	}
	pool.Shutdown()

	stats = OrderStats{Placed: placed.Load(), NotFound: notFound.Load(), Insufficient: short.Load()}
	if firstErr != nil {
		return stats, firstErr
	}
	return stats, ctx.Err()
}
