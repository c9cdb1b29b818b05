// Package orm is a thin fluent wrapper over GORM used by the repositories.
// It adds context propagation, pagination in the shape of response.Pagination,
// read-through caching and a single not-found sentinel.
package orm

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/mockshop/pkg/cache"
	"github.com/shashiranjanraj/mockshop/pkg/database"
	"github.com/shashiranjanraj/mockshop/pkg/response"
)

// ErrNotFound is returned by First when no row matches.
var ErrNotFound = errors.New("record not found")

// MaxPageSize caps the limit accepted by Paginate.
const MaxPageSize = 100

type Query struct {
	db *gorm.DB
}

// DB starts a query on the shared connection.
func DB() *Query {
	return &Query{db: database.DB}
}

// Use starts a query on db, typically an open transaction.
func Use(db *gorm.DB) *Query {
	if db == nil {
		return DB()
	}
	return &Query{db: db}
}

// Gorm exposes the underlying handle for queries the wrapper does not cover.
func (q *Query) Gorm() *gorm.DB { return q.db }

func (q *Query) WithContext(ctx context.Context) *Query {
	return &Query{db: q.db.WithContext(ctx)}
}

func (q *Query) Model(v any) *Query {
	return &Query{db: q.db.Model(v)}
}

func (q *Query) Where(query any, args ...any) *Query {
	return &Query{db: q.db.Where(query, args...)}
}

func (q *Query) Preload(assoc string, args ...any) *Query {
	return &Query{db: q.db.Preload(assoc, args...)}
}

func (q *Query) Joins(query string, args ...any) *Query {
	return &Query{db: q.db.Joins(query, args...)}
}

func (q *Query) Order(v any) *Query {
	return &Query{db: q.db.Order(v)}
}

func (q *Query) Limit(n int) *Query {
	return &Query{db: q.db.Limit(n)}
}

// Scopes applies reusable query fragments.
func (q *Query) Scopes(fns ...func(*gorm.DB) *gorm.DB) *Query {
	return &Query{db: q.db.Scopes(fns...)}
}

func (q *Query) Get(dest any) error {
	return q.db.Find(dest).Error
}

// First loads the first row by primary key order. A miss is ErrNotFound.
func (q *Query) First(dest any) error {
	err := q.db.First(dest).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

func (q *Query) Count() (int64, error) {
	var n int64
	err := q.db.Count(&n).Error
	return n, err
}

// Exists reports whether any row matches.
func (q *Query) Exists() (bool, error) {
	var n int64
	err := q.db.Limit(1).Count(&n).Error
	return n > 0, err
}

func (q *Query) Create(v any) error {
	return q.db.Create(v).Error
}

func (q *Query) Save(v any) error {
	return q.db.Save(v).Error
}

// Updates applies a partial update and returns the affected row count.
func (q *Query) Updates(values any) (int64, error) {
	res := q.db.Updates(values)
	return res.RowsAffected, res.Error
}

// Delete removes the matching rows of model and returns how many went.
func (q *Query) Delete(model any) (int64, error) {
	res := q.db.Delete(model)
	return res.RowsAffected, res.Error
}

// Paginate counts the matching rows, then loads one page into dest. Page and
// limit are clamped to at least 1, and limit to at most MaxPageSize.
func (q *Query) Paginate(dest any, page, limit int) (response.Pagination, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 1
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}

	var total int64
	if err := q.db.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return response.Pagination{}, err
	}
	if err := q.db.Offset((page - 1) * limit).Limit(limit).Find(dest).Error; err != nil {
		return response.Pagination{}, err
	}
	return response.NewPagination(page, limit, total), nil
}

// Cache loads dest from the cache, falling back to the query and storing the
// result for ttl.
func (q *Query) Cache(key string, ttl time.Duration, dest any) error {
	if cache.Get(key, dest) {
		return nil
	}
	if err := q.db.Find(dest).Error; err != nil {
		return err
	}
	return cache.Set(key, dest, ttl)
}
