package state

import "time"

// AppStateRecord is one key-value row; Value holds a serialized snapshot.
type AppStateRecord struct {
	Key       string    `gorm:"column:state_key;primaryKey"`
	Value     string    `gorm:"column:value;not null"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (AppStateRecord) TableName() string {
	return "app_state"
}
