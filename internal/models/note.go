package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MaxTitleLength is the width of the title column.
const MaxTitleLength = 200

// Note is a rich-text note. Content holds the serialized delta exactly as validated.
type Note struct {
	ID         string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	OwnerID    string    `json:"owner_id" gorm:"type:varchar(36);not null;index"`
	Title      string    `json:"title" gorm:"type:varchar(200)"`
	Content    string    `json:"content" gorm:"type:text;not null"`
	IsShared   bool      `json:"is_shared" gorm:"not null;default:false"`
	ShareToken *string   `json:"share_token,omitempty" gorm:"type:varchar(64);uniqueIndex"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// BeforeCreate assigns a UUID when the caller left ID empty.
func (n *Note) BeforeCreate(tx *gorm.DB) error {
	if n.ID == "" {
		n.ID = uuid.New().String()
	}
	return nil
}
