// Package migration applies and tracks schema migrations.
//
// Migrations register themselves from init():
//
//	func init() {
//	    migration.Register("20260101000000_create_users_table", &CreateUsersTable{})
//	}
//
// and are run by `mockshop migrate` / `mockshop migrate:rollback`.
package migration

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/shashiranjanraj/mockshop/pkg/logger"
	"gorm.io/gorm"
)

// Migration is implemented by every schema change.
type Migration interface {
	Up(db *gorm.DB) error
	Down(db *gorm.DB) error
}

type record struct {
	ID    uint      `gorm:"primaryKey;autoIncrement"`
	Name  string    `gorm:"uniqueIndex;size:255;not null"`
	Batch int       `gorm:"not null"`
	RunAt time.Time `gorm:"autoCreateTime"`
}

func (record) TableName() string { return "schema_migrations" }

type entry struct {
	name string
	m    Migration
}

var (
	mu       sync.Mutex
	registry []entry
)

// ErrNoMigrations is returned by Run when nothing is registered.
var ErrNoMigrations = errors.New("no migrations registered")

// Register adds a migration. Names are timestamp-prefixed and run in
// lexical order regardless of registration order.
func Register(name string, m Migration) {
	mu.Lock()
	defer mu.Unlock()
	for _, e := range registry {
		if e.name == name {
			panic("migration: duplicate name " + name)
		}
	}
	registry = append(registry, entry{name: name, m: m})
}

func registered() []entry {
	mu.Lock()
	out := make([]entry, len(registry))
	copy(out, registry)
	mu.Unlock()
	sort.Slice(out, func(i, j int) bool { return out[i].name < out[j].name })
	return out
}

// Status is one row of the status report.
type Status struct {
	Name  string
	Ran   bool
	Batch int
}

// Runner executes and tracks migrations against one database.
type Runner struct {
	db  *gorm.DB
	out io.Writer
}

// New returns a Runner that reports progress on stdout.
func New(db *gorm.DB) *Runner {
	return &Runner{db: db, out: os.Stdout}
}

// Quiet returns a copy of r that prints nothing.
func (r *Runner) Quiet() *Runner {
	return &Runner{db: r.db, out: io.Discard}
}

func (r *Runner) ensureTable() error {
	if err := r.db.AutoMigrate(&record{}); err != nil {
		return fmt.Errorf("migration: ensure table: %w", err)
	}
	return nil
}

func (r *Runner) ran() (map[string]record, error) {
	var rows []record
	if err := r.db.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("migration: load history: %w", err)
	}
	out := make(map[string]record, len(rows))
	for _, rec := range rows {
		out[rec.Name] = rec
	}
	return out, nil
}

func (r *Runner) lastBatch() (int, error) {
	var n int
	err := r.db.Model(&record{}).Select("COALESCE(MAX(batch), 0)").Row().Scan(&n)
	return n, err
}

// Run applies every pending migration as one new batch and returns how many
// ran.
func (r *Runner) Run() (int, error) {
	all := registered()
	if len(all) == 0 {
		return 0, ErrNoMigrations
	}
	if err := r.ensureTable(); err != nil {
		return 0, err
	}
	done, err := r.ran()
	if err != nil {
		return 0, err
	}
	last, err := r.lastBatch()
	if err != nil {
		return 0, fmt.Errorf("migration: batch: %w", err)
	}
	batch := last + 1

	count := 0
	for _, e := range all {
		if _, ok := done[e.name]; ok {
			continue
		}
		fmt.Fprintf(r.out, "  migrating  %s\n", e.name)
		if err := e.m.Up(r.db); err != nil {
			return count, fmt.Errorf("migration: %s up: %w", e.name, err)
		}
		if err := r.db.Create(&record{Name: e.name, Batch: batch}).Error; err != nil {
			return count, fmt.Errorf("migration: record %s: %w", e.name, err)
		}
		count++
	}

	if count == 0 {
		fmt.Fprintln(r.out, "Nothing to migrate.")
		return 0, nil
	}
	logger.Info("migration: done", "ran", count, "batch", batch)
	return count, nil
}

// Rollback reverses the most recent batch and returns how many were undone.
func (r *Runner) Rollback() (int, error) {
	if err := r.ensureTable(); err != nil {
		return 0, err
	}
	last, err := r.lastBatch()
	if err != nil {
		return 0, fmt.Errorf("migration: batch: %w", err)
	}
	if last == 0 {
		fmt.Fprintln(r.out, "Nothing to roll back.")
		return 0, nil
	}

	var rows []record
	if err := r.db.Where("batch = ?", last).Order("name desc").Find(&rows).Error; err != nil {
		return 0, fmt.Errorf("migration: load batch %d: %w", last, err)
	}

	byName := make(map[string]Migration)
	for _, e := range registered() {
		byName[e.name] = e.m
	}

	for i, rec := range rows {
		m, ok := byName[rec.Name]
		if !ok {
			return i, fmt.Errorf("migration: %s is not registered", rec.Name)
		}
		fmt.Fprintf(r.out, "  rolling back  %s\n", rec.Name)
		if err := m.Down(r.db); err != nil {
			return i, fmt.Errorf("migration: %s down: %w", rec.Name, err)
		}
		if err := r.db.Delete(&record{}, rec.ID).Error; err != nil {
			return i, fmt.Errorf("migration: forget %s: %w", rec.Name, err)
		}
	}
	logger.Info("migration: rolled back", "count", len(rows), "batch", last)
	return len(rows), nil
}

// Status reports every registered migration and whether it has run.
func (r *Runner) Status() ([]Status, error) {
	if err := r.ensureTable(); err != nil {
		return nil, err
	}
	done, err := r.ran()
	if err != nil {
		return nil, err
	}
	var out []Status
	for _, e := range registered() {
		rec, ok := done[e.name]
		out = append(out, Status{Name: e.name, Ran: ok, Batch: rec.Batch})
	}
	return out, nil
}

// PrintStatus writes the status table to the runner's output.
func (r *Runner) PrintStatus() error {
	rows, err := r.Status()
	if err != nil {
		return err
	}
	fmt.Fprintf(r.out, "%-56s  %-8s  %s\n", "Migration", "Status", "Batch")
	fmt.Fprintln(r.out, strings.Repeat("-", 74))
	for _, s := range rows {
		if s.Ran {
			fmt.Fprintf(r.out, "%-56s  %-8s  %d\n", s.Name, "Ran", s.Batch)
		} else {
			fmt.Fprintf(r.out, "%-56s  %-8s  -\n", s.Name, "Pending")
		}
	}
	return nil
}
