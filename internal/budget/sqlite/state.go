package sqlite

import (
	"errors"
	"time"

	"github.com/frahmantamala/monthly-budget/internal/budget"
	stateDatamodel "github.com/frahmantamala/monthly-budget/internal/core/datamodel/state"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type StateRepository struct {
	db *gorm.DB
}

func NewStateRepository(db *gorm.DB) budget.RepositoryAPI {
	return &StateRepository{db: db}
}

func (r *StateRepository) Get(key string) ([]byte, bool, error) {
	var rec stateDatamodel.AppStateRecord
	err := r.db.Where("state_key = ?", key).First(&rec).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return []byte(rec.Value), true, nil
}

// Put overwrites the whole value stored under key.
func (r *StateRepository) Put(key string, value []byte) error {
	rec := stateDatamodel.AppStateRecord{
		Key:       key,
		Value:     string(value),
		UpdatedAt: time.Now(),
	}
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "state_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&rec).Error
}
