// Package repositories wraps the GORM queries of each aggregate. Every
// repository can be rebound to an open transaction with WithTx.
package repositories

import (
	"context"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/mockshop/pkg/orm"
)

type base struct {
	db *gorm.DB
}

// query starts on the bound transaction, or on database.DB when unbound.
func (b base) query(ctx context.Context) *orm.Query {
	return orm.Use(b.db).WithContext(ctx)
}

// gorm returns the raw handle for statements orm.Query does not cover.
func (b base) gorm(ctx context.Context) *gorm.DB {
	return b.query(ctx).Gorm()
}
