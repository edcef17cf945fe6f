package models

import (
	"errors"
	"strings"
	"time"

	"placepix/config"

	"gorm.io/gorm"
)

// Lifecycle states as seen by the review UI. Exactly one of these holds at
// a time - the flag setters below always clear the competing flag.
const (
	StatusUnchecked      = "unchecked"
	StatusNeedsAttention = "needs_attention"
	StatusChecked        = "checked"
	StatusToBeDeleted    = "to_be_deleted"
)

var (
	ErrTopImageCount   = errors.New("top selection must contain exactly the configured number of distinct images")
	ErrTopImageMissing = errors.New("top selection references an image that does not belong to this place")
)

type Place struct {
	ID               uint64  `gorm:"primaryKey"`
	ExternalID       string  `gorm:"type:varchar(100);uniqueIndex;not null"`
	Name             string  `gorm:"type:varchar(300);not null"`
	NameFallback     string  `gorm:"type:varchar(300)"`
	NameOriginal     string  `gorm:"type:varchar(300)"` // Canonical name in the place's own language, when resolved
	Category         string  `gorm:"type:varchar(30);index;not null"`
	CityID           *uint64
	City             City   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;"`
	Folder           string `gorm:"type:varchar(100)"` // Storage key, defaults to ExternalID
	MapsURL          string `gorm:"type:varchar(2000)"`
	InstagramURL     string `gorm:"type:varchar(2000)"`
	WikipediaURL     string `gorm:"type:varchar(2000)"`
	UnsplashURL      string `gorm:"type:varchar(2000)"`
	Details          string `gorm:"type:text"` // Accumulated error/diagnostic strings
	Checked          bool   `gorm:"index;not null;default:false"`
	NeedsAttention   bool   `gorm:"index;not null;default:false"`
	ToBeDeleted      bool   `gorm:"not null;default:false"`
	LastModification int64
	Images           []Image `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}

func (p *Place) BeforeCreate(tx *gorm.DB) (err error) {
	if p.Folder == "" {
		p.Folder = p.ExternalID
	}
	return
}

func (p *Place) Status() string {
	switch {
	case p.ToBeDeleted:
		return StatusToBeDeleted
	case p.Checked:
		return StatusChecked
	case p.NeedsAttention:
		return StatusNeedsAttention
	}
	return StatusUnchecked
}

// ApplyYield sets the post-ingestion lifecycle flags: zero acquired images
// routes the place to human review, anything else resets it to unchecked
func (p *Place) ApplyYield(imageCount int) {
	p.Checked = false
	p.NeedsAttention = imageCount == 0
	p.LastModification = time.Now().Unix()
}

// MarkNeedsAttention is the curator "flag a problem" action
func (p *Place) MarkNeedsAttention(tx *gorm.DB, details string) error {
	p.NeedsAttention = true
	p.Checked = false
	if details != "" {
		p.Details = details
	}
	p.LastModification = time.Now().Unix()
	return tx.Model(p).Select("needs_attention", "checked", "details", "last_modification").Updates(p).Error
}

// SetTopImages assigns ranks 1..N (in the submitted order) to exactly the
// given images, clears the rank on every other image of the place and marks
// the place checked. The whole selection is validated before anything is
// written.
func (p *Place) SetTopImages(tx *gorm.DB, imageIDs []uint64) error {
	if len(imageIDs) != config.TOP_IMAGE_COUNT {
		return ErrTopImageCount
	}
	seen := map[uint64]bool{}
	for _, id := range imageIDs {
		if seen[id] {
			return ErrTopImageCount
		}
		seen[id] = true
	}
	var count int64
	if err := tx.Model(&Image{}).Where("place_id=? AND id IN ?", p.ID, imageIDs).Count(&count).Error; err != nil {
		return err
	}
	if count != int64(len(imageIDs)) {
		return ErrTopImageMissing
	}
	if err := tx.Model(&Image{}).Where("place_id=?", p.ID).Update("top", nil).Error; err != nil {
		return err
	}
	for i, id := range imageIDs {
		rank := uint8(i + 1)
		if err := tx.Model(&Image{}).Where("id=?", id).Update("top", rank).Error; err != nil {
			return err
		}
	}
	p.Checked = true
	p.NeedsAttention = false
	p.LastModification = time.Now().Unix()
	return tx.Model(p).Select("checked", "needs_attention", "last_modification").Updates(p).Error
}

// AppendDetails adds one more diagnostic line to the free-text details
// field. A line already present is skipped, so re-processing the same place
// does not pile up duplicates.
func (p *Place) AppendDetails(line string) {
	if p.Details == "" {
		p.Details = line
		return
	}
	for _, existing := range strings.Split(p.Details, "\n") {
		if existing == line {
			return
		}
	}
	p.Details = p.Details + "\n" + line
}
