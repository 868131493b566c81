package models

import "time"

type StoredValue struct {
	Key       string `gorm:"primaryKey;column:store_key"`
	Value     []byte
	UpdatedAt time.Time
}
