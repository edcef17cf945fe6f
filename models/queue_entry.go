package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	CategoryBusiness   = "business"
	CategoryAttraction = "tourist_attraction"
)

// QueueEntry is a pending unit of ingestion work for one external place.
// Rows are created/updated by the ingestion endpoint and consumed by the
// drain loop - never deleted, only flipped to processed.
type QueueEntry struct {
	ID           uint64   `gorm:"primaryKey"`
	ExternalID   string   `gorm:"type:varchar(100);uniqueIndex;not null"`
	Name         string   `gorm:"type:varchar(300);not null"`
	NameFallback string   `gorm:"type:varchar(300)"`
	Category     string   `gorm:"type:varchar(30);index;not null"`
	Address      string   `gorm:"type:varchar(500)"`
	GpsLat       *float64 `gorm:"type:double"`
	GpsLong      *float64 `gorm:"type:double"`
	SocialHandle string   `gorm:"type:varchar(100)"`
	CityName     string   `gorm:"type:varchar(100);not null"`
	CountryName  string   `gorm:"type:varchar(100);not null"`
	Famous       bool     `gorm:"not null;default:false"`
	Processed    bool     `gorm:"index;not null;default:false"`
	CreatedAt    int64
	UpdatedAt    int64
}

func (q *QueueEntry) IsBusiness() bool {
	return q.Category == CategoryBusiness
}

// BestName prefers the primary name, falling back to the secondary-language one
func (q *QueueEntry) BestName() string {
	if q.Name != "" {
		return q.Name
	}
	return q.NameFallback
}

func (q *QueueEntry) MarkProcessed(tx *gorm.DB) error {
	q.Processed = true
	q.UpdatedAt = time.Now().Unix()
	return tx.Model(q).Select("processed", "updated_at").Updates(q).Error
}
