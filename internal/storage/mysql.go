package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql"
	"gorm.io/datatypes"
	gormmysql "gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ViewInstance is a row of view_instances (see cmd/tools/createtable).
type ViewInstance struct {
	ID        string         `gorm:"primaryKey;type:char(36)"`
	Payload   datatypes.JSON `gorm:"type:json;not null"`
	ExpiresAt time.Time      `gorm:"type:datetime(3);not null;index:ix_view_instances_expires_at"`
	CreatedAt time.Time      `gorm:"type:datetime(3);not null"`
	UpdatedAt time.Time      `gorm:"type:datetime(3);not null"`
}

func (ViewInstance) TableName() string { return "view_instances" }

// OpenMySQL opens dsn with parseTime forced on, which the expiry columns need.
func OpenMySQL(dsn string) (*gorm.DB, error) {
	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return nil, fmt.Errorf("invalid DB_DSN: %w", err)
	}
	cfg.ParseTime = true
	return gorm.Open(gormmysql.Open(cfg.FormatDSN()), &gorm.Config{})
}

type MySQL struct {
	db  *gorm.DB
	ttl time.Duration
	now func() time.Time
}

func NewMySQL(db *gorm.DB, ttl time.Duration) *MySQL {
	return &MySQL{db: db, ttl: ttl, now: time.Now}
}

func (s *MySQL) Create(ctx context.Context, id string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal view failed: %w", err)
	}
	now := s.now()

	// expired instances are swept on every activation
	if err := s.db.WithContext(ctx).
		Where("expires_at <= ?", now).
		Delete(&ViewInstance{}).Error; err != nil {
		return err
	}

	err = s.db.WithContext(ctx).Create(&ViewInstance{
		ID:        id,
		Payload:   datatypes.JSON(b),
		ExpiresAt: now.Add(s.ttl),
		CreatedAt: now,
		UpdatedAt: now,
	}).Error
	if isDuplicateKey(err) {
		return fmt.Errorf("view instance %s already exists: %w", id, err)
	}
	return err
}

func (s *MySQL) Load(ctx context.Context, id string, dst any) error {
	var row ViewInstance
	err := s.db.WithContext(ctx).
		Where("id = ? AND expires_at > ?", id, s.now()).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrGone
	}
	if err != nil {
		return err
	}
	return json.Unmarshal(row.Payload, dst)
}

// Update locks the row with SELECT ... FOR UPDATE for the whole
// read-modify-write.
func (s *MySQL) Update(ctx context.Context, id string, fn Mutator) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := s.now()
		var row ViewInstance
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ? AND expires_at > ?", id, now).
			First(&row).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrGone
		}
		if err != nil {
			return err
		}

		v, err := fn(func(dst any) error { return json.Unmarshal(row.Payload, dst) })
		if err != nil {
			return err
		}
		b, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("marshal view failed: %w", err)
		}
		return tx.Model(&ViewInstance{}).
			Where("id = ?", id).
			Updates(map[string]any{
				"payload":    datatypes.JSON(b),
				"expires_at": now.Add(s.ttl),
				"updated_at": now,
			}).Error
	})
}

func (s *MySQL) Dispose(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).Delete(&ViewInstance{}, "id = ?", id).Error
}

func isDuplicateKey(err error) bool {
	var me *mysql.MySQLError
	if errors.As(err, &me) {
		return me.Number == 1062
	}
	return false
}
