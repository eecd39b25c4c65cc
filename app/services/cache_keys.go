package services

import (
	"context"
	"strconv"

	"github.com/shashiranjanraj/inventario/pkg/cache"
)

const keyAllProducts = "productos:all"

// defaultLowStockThreshold applies when no positive threshold is configured.
// Both services must resolve it the same way or they address different keys.
const defaultLowStockThreshold = 10

func keyLowStock(threshold int) string {
	return "productos:bajo-stock:" + strconv.Itoa(threshold)
}

// forgetProductLists drops every cached product listing. Called after any
// committed stock or catalogue change.
func forgetProductLists(ctx context.Context, store cache.Store, threshold int) {
	cache.Forget(ctx, store, keyAllProducts, keyLowStock(threshold))
}
