package queue

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/mockshop/pkg/logger"
)

// FailedJobRecord is a row of the failed_jobs table.
type FailedJobRecord struct {
	ID       uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	JobType  string    `gorm:"size:255;not null;index" json:"jobType"`
	Payload  string    `gorm:"type:text;not null" json:"payload"`
	Error    string    `gorm:"type:text" json:"error"`
	Attempts int       `gorm:"not null;default:0" json:"attempts"`
	FailedAt time.Time `gorm:"autoCreateTime" json:"failedAt"`
}

func (FailedJobRecord) TableName() string { return "failed_jobs" }

// FailedStore persists failed jobs.
type FailedStore interface {
	SaveFailed(ctx context.Context, rec FailedJobRecord) error
	ListFailed(ctx context.Context, limit int) ([]FailedJobRecord, error)
}

type dbStore struct{ db *gorm.DB }

// NewDBStore stores failed jobs in db. The table is created by the
// migrations.
func NewDBStore(db *gorm.DB) FailedStore { return dbStore{db: db} }

func (s dbStore) SaveFailed(ctx context.Context, rec FailedJobRecord) error {
	return s.db.WithContext(ctx).Create(&rec).Error
}

func (s dbStore) ListFailed(ctx context.Context, limit int) ([]FailedJobRecord, error) {
	var out []FailedJobRecord
	err := s.db.WithContext(ctx).Order("failed_at desc").Limit(limit).Find(&out).Error
	return out, err
}

// UseStore makes the manager persist failures through s.
func (m *Manager) UseStore(s FailedStore) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.store = s
}

// UseDB persists failures of the default manager to db.
func UseDB(db *gorm.DB) { Default.UseStore(NewDBStore(db)) }

func (m *Manager) recordFailed(ctx context.Context, typ, payload string, cause error, attempts int) {
	msg := ""
	if cause != nil {
		msg = cause.Error()
	}
	now := time.Now()

	m.mu.Lock()
	m.failed = append(m.failed, FailedJob{Type: typ, Payload: payload, Err: msg, Attempts: attempts, FailedAt: now})
	store := m.store
	m.mu.Unlock()

	if store == nil {
		return
	}
	rec := FailedJobRecord{JobType: typ, Payload: payload, Error: msg, Attempts: attempts, FailedAt: now}
	if err := store.SaveFailed(context.WithoutCancel(ctx), rec); err != nil {
		logger.Error("queue: persist failed job", "type", typ, "error", err)
	}
}

// FailedJobs returns the failures seen by this process.
func (m *Manager) FailedJobs() []FailedJob {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]FailedJob, len(m.failed))
	copy(out, m.failed)
	return out
}

// ListFailed reads persisted failures, newest first.
func (m *Manager) ListFailed(ctx context.Context, limit int) ([]FailedJobRecord, error) {
	m.mu.RLock()
	store := m.store
	m.mu.RUnlock()
	if store != nil {
		return store.ListFailed(ctx, limit)
	}
	var out []FailedJobRecord
	for i, f := range m.FailedJobs() {
		out = append(out, FailedJobRecord{
			ID: uint(i + 1), JobType: f.Type, Payload: f.Payload, Error: f.Err,
			Attempts: f.Attempts, FailedAt: f.FailedAt,
		})
	}
	return out, nil
}
