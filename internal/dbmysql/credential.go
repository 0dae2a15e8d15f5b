package dbmysql

import (
	"time"
)

// Credential holds the login secret for one identity. Kept separate
// from the directory record: signup writes the credential first and the
// directory record second, so a failed second write leaves an orphaned
// credential with no directory entry.
type Credential struct {
	UID          string    `gorm:"primaryKey;column:uid;size:36" json:"uid"`
	Email        string    `gorm:"column:email;uniqueIndex;size:255;not null" json:"email"`
	PasswordHash string    `gorm:"column:password_hash;size:255;not null" json:"-"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime" json:"-"`
}
