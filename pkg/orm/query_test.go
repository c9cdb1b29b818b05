package orm_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/shashiranjanraj/mockshop/pkg/cache"
	"github.com/shashiranjanraj/mockshop/pkg/database"
	"github.com/shashiranjanraj/mockshop/pkg/orm"
	"github.com/shashiranjanraj/mockshop/pkg/response"
)

type note struct {
	ID    uint
	Title string
	Rank  int
}

func openNotes(t *testing.T) *gorm.DB {
	t.Helper()
	cache.Flush()
	db, err := database.Open("sqlite", fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()))
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&note{}))
	for i := 1; i <= 5; i++ {
		require.NoError(t, db.Create(&note{Title: fmt.Sprintf("n%d", i), Rank: i}).Error)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func TestPaginate(t *testing.T) {
	db := openNotes(t)

	var page []note
	p, err := orm.Use(db).Model(&note{}).Order("rank ASC").Paginate(&page, 2, 2)
	require.NoError(t, err)
	assert.Equal(t, response.Pagination{Page: 2, Limit: 2, Total: 5, Pages: 3}, p)
	require.Len(t, page, 2)
	assert.Equal(t, "n3", page[0].Title)
	assert.Equal(t, "n4", page[1].Title)

	var all []note
	p, err = orm.Use(db).Model(&note{}).Paginate(&all, 0, 1000)
	require.NoError(t, err)
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, orm.MaxPageSize, p.Limit)
	assert.Len(t, all, 5)
}

func TestFirstExistsAndUpdates(t *testing.T) {
	db := openNotes(t)

	var n note
	err := orm.Use(db).Where("rank = ?", 99).First(&n)
	assert.ErrorIs(t, err, orm.ErrNotFound)

	ok, err := orm.Use(db).Model(&note{}).Where("rank = ?", 3).Exists()
	require.NoError(t, err)
	assert.True(t, ok)

	affected, err := orm.Use(db).Model(&note{}).Where("rank > ?", 3).
		Updates(map[string]any{"title": "late"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), affected)

	count, err := orm.Use(db).Model(&note{}).Where("title = ?", "late").Count()
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestCacheServesStoredRowsUntilForgotten(t *testing.T) {
	db := openNotes(t)

	var first []note
	require.NoError(t, orm.Use(db).Order("rank ASC").Cache("notes:all", time.Minute, &first))
	require.Len(t, first, 5)

	_, err := orm.Use(db).Where("rank = ?", 1).Delete(&note{})
	require.NoError(t, err)

	var stale []note
	require.NoError(t, orm.Use(db).Order("rank ASC").Cache("notes:all", time.Minute, &stale))
	assert.Len(t, stale, 5)

	require.NoError(t, cache.Forget("notes:all"))
	var fresh []note
	require.NoError(t, orm.Use(db).Order("rank ASC").Cache("notes:all", time.Minute, &fresh))
	assert.Len(t, fresh, 4)
}
