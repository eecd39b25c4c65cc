package database

import (
	"time"

	"github.com/shashiranjanraj/inventario/pkg/metrics"
	"gorm.io/gorm"
)

const startKey = "inventario:query_start"

// instrument times every gorm statement into metrics.DBQueryDuration.
func instrument(db *gorm.DB) error {
	cb := db.Callback()

	type stage struct {
		operation string
		before    func(name string, fn func(*gorm.DB)) error
		after     func(name string, fn func(*gorm.DB)) error
	}

	stages := []stage{
		{"select", cb.Query().Before("gorm:query").Register, cb.Query().After("gorm:query").Register},
		{"insert", cb.Create().Before("gorm:create").Register, cb.Create().After("gorm:create").Register},
		{"update", cb.Update().Before("gorm:update").Register, cb.Update().After("gorm:update").Register},
		{"delete", cb.Delete().Before("gorm:delete").Register, cb.Delete().After("gorm:delete").Register},
		{"raw", cb.Raw().Before("gorm:raw").Register, cb.Raw().After("gorm:raw").Register},
	}

	for _, s := range stages {
		op := s.operation
		if err := s.before("metrics:before_"+op, func(tx *gorm.DB) {
			tx.InstanceSet(startKey, time.Now())
		}); err != nil {
			return err
		}
		if err := s.after("metrics:after_"+op, func(tx *gorm.DB) {
			if v, ok := tx.InstanceGet(startKey); ok {
				if start, ok := v.(time.Time); ok {
					metrics.ObserveDBQuery(op, start)
				}
			}
		}); err != nil {
			return err
		}
	}
	return nil
}
