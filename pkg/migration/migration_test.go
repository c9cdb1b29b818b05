package migration_test

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/shashiranjanraj/mockshop/pkg/database"
	"github.com/shashiranjanraj/mockshop/pkg/migration"
)

type tableMigration string

func (m tableMigration) Up(db *gorm.DB) error {
	return db.Exec("CREATE TABLE " + string(m) + " (id INTEGER PRIMARY KEY)").Error
}

func (m tableMigration) Down(db *gorm.DB) error {
	return db.Exec("DROP TABLE " + string(m)).Error
}

func init() {
	// registered out of order on purpose; names decide the run order
	migration.Register("20990101000001_create_gadgets", tableMigration("gadgets"))
	migration.Register("20990101000000_create_widgets", tableMigration("widgets"))
}

func TestRunStatusRollback(t *testing.T) {
	db, err := database.Open("sqlite", fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()))
	require.NoError(t, err)
	runner := migration.New(db).Quiet()

	n, err := runner.Run()
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.True(t, db.Migrator().HasTable("widgets"))
	assert.True(t, db.Migrator().HasTable("gadgets"))

	n, err = runner.Run()
	require.NoError(t, err)
	assert.Zero(t, n)

	status, err := runner.Status()
	require.NoError(t, err)
	assert.Equal(t, []migration.Status{
		{Name: "20990101000000_create_widgets", Ran: true, Batch: 1},
		{Name: "20990101000001_create_gadgets", Ran: true, Batch: 1},
	}, status)

	n, err = runner.Rollback()
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.False(t, db.Migrator().HasTable("widgets"))

	status, err = runner.Status()
	require.NoError(t, err)
	for _, s := range status {
		assert.False(t, s.Ran, s.Name)
	}

	n, err = runner.Rollback()
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestRegisterRejectsDuplicates(t *testing.T) {
	assert.Panics(t, func() {
		migration.Register("20990101000000_create_widgets", tableMigration("widgets"))
	})
}
