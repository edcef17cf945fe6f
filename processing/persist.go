package processing

import (
	"placepix/db"
	"placepix/models"
	"placepix/providers"

	"gorm.io/gorm"
)

// PersistPlace runs the single transaction for one place: find-or-create
// the Place row by external id, attach one Image row per stored file and
// set the lifecycle flags from the yield. A mid-transaction failure rolls
// the whole thing back, leaving the queue entry unprocessed for retry.
// Safe to repeat: re-processing matches the existing row.
func PersistPlace(entry *models.QueueEntry, cityID *uint64, outcome *providers.Outcome, stored []StoredImage) error {
	return db.Instance.Transaction(func(tx *gorm.DB) error {
		place := models.Place{}
		if err := tx.Where("external_id=?", entry.ExternalID).Limit(1).Find(&place).Error; err != nil {
			return err
		}
		place.ExternalID = entry.ExternalID
		place.Name = entry.Name
		place.NameFallback = entry.NameFallback
		place.Category = entry.Category
		if cityID != nil {
			place.CityID = cityID
		}
		if outcome != nil {
			if outcome.OriginalName != "" {
				place.NameOriginal = outcome.OriginalName
			}
			setLink(&place.MapsURL, outcome.Links["maps"])
			setLink(&place.InstagramURL, outcome.Links["instagram"])
			setLink(&place.WikipediaURL, outcome.Links["wikipedia"])
			setLink(&place.UnsplashURL, outcome.Links["unsplash"])
			for _, e := range outcome.Errors {
				place.AppendDetails(e)
			}
		}
		var existing int64
		if place.ID != 0 {
			if err := tx.Model(&models.Image{}).Where("place_id=?", place.ID).Count(&existing).Error; err != nil {
				return err
			}
		}
		place.ApplyYield(len(stored) + int(existing))
		if err := tx.Save(&place).Error; err != nil {
			return err
		}
		for _, s := range stored {
			image := models.Image{
				PlaceID:   place.ID,
				FileName:  s.FileName,
				SourceURL: s.SourceURL,
				Source:    s.Source,
				Author:    s.Author,
				License:   s.License,
			}
			if err := tx.Create(&image).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func setLink(dest *string, value string) {
	if value != "" {
		*dest = value
	}
}
