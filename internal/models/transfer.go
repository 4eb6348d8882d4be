package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Transfer is an append-only ledger record of a completed balance
// movement. Rows are never updated or deleted once written.
type Transfer struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	FromID    string    `gorm:"type:uuid;not null;index" json:"fromId"`
	ToID      string    `gorm:"type:uuid;not null;index" json:"toId"`
	Amount    int64     `gorm:"not null" json:"amount"`
	CreatedAt time.Time `json:"createdAt"`
}

func (t *Transfer) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return nil
}
