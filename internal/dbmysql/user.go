package dbmysql

import (
	"time"
)

// User is the directory record for one authenticated identity. One row
// per uid; immutable after signup except via upsert with the same uid.
type User struct {
	UID         string    `gorm:"primaryKey;column:uid;size:36" json:"uid"`
	Email       string    `gorm:"column:email;uniqueIndex;size:255;not null" json:"email"`
	// Binary collation keeps display-name prefix ranges case-sensitive;
	// the server's default utf8mb4 collation would case-fold them.
	DisplayName string    `gorm:"column:display_name;type:varchar(100) COLLATE utf8mb4_bin;not null" json:"displayName"`
	PhotoURL    *string   `gorm:"column:photo_url;size:512" json:"photoURL"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime" json:"-"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime" json:"-"`
}
