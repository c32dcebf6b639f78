package gorm

import (
	"gorm.io/gorm"

	"github.com/kickshopping/kickshop/pkg/server/store"
)

// Ensure HealthStore implements store.HealthStore
var _ store.HealthStore = (*HealthStore)(nil)

// HealthStore implements store.HealthStore using GORM.
type HealthStore struct {
	db *gorm.DB
}

// NewHealthStore creates a new HealthStore.
func NewHealthStore(db *gorm.DB) *HealthStore {
	return &HealthStore{db: db}
}

func (s *HealthStore) Ping() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}
