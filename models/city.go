package models

type City struct {
	ID        uint64 `gorm:"primaryKey"`
	Name      string `gorm:"type:varchar(100);index:uniq_city,unique,priority:2;not null"`
	CountryID uint64 `gorm:"index:uniq_city,unique,priority:1;not null"`
	Country   Country `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}
