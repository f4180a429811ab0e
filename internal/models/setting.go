package models

import (
	"time"
)

// SettingKeyCommissionRate is the global key consulted by trip settlement.
const SettingKeyCommissionRate = "commission_rate"

// Setting is a per-user key/value pair. Rows with UserID = 0 are global
// defaults readable by every user but writable only through migrations.
type Setting struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `json:"userId" gorm:"uniqueIndex:idx_settings_user_key"`
	Key       string    `json:"key" gorm:"not null;uniqueIndex:idx_settings_user_key"`
	Value     string    `json:"value" gorm:"not null"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// TableName specifies the table name
func (Setting) TableName() string {
	return "settings"
}
