package models

type Country struct {
	ID   uint64 `gorm:"primaryKey"`
	Name string `gorm:"type:varchar(100);uniqueIndex;not null"`
}
