package processing

import (
	"log"
	"time"

	"placepix/db"
	"placepix/models"

	"gorm.io/gorm"
)

// Provider errors caused by exhausted retries carry this text; places that
// only failed transiently are worth a full re-run
const DefaultTransientSignature = "request failed"

// Sweep resets queue entries marked processed whose Place row was never
// created - the crash window between provider success and the commit
func Sweep() (int64, error) {
	result := db.Instance.Model(&models.QueueEntry{}).
		Where("processed=? AND external_id NOT IN (?)", true,
			db.Instance.Model(&models.Place{}).Select("external_id")).
		Updates(map[string]interface{}{"processed": false, "updated_at": time.Now().Unix()})
	return result.RowsAffected, result.Error
}

// Cleanup deletes needs-attention places whose details match a transient
// failure signature and resets their queue entries to unprocessed, so the
// next drain gives them a fresh attempt
func Cleanup(signature string) (int, error) {
	if signature == "" {
		signature = DefaultTransientSignature
	}
	places := []models.Place{}
	err := db.Instance.Preload("Images").
		Where("needs_attention=? AND details LIKE ?", true, "%"+signature+"%").
		Find(&places).Error
	if err != nil {
		return 0, err
	}
	cleaned := 0
	for i := range places {
		place := &places[i]
		RemovePlaceFiles(place)
		err = db.Instance.Transaction(func(tx *gorm.DB) error {
			if err := tx.Where("place_id=?", place.ID).Delete(&models.Image{}).Error; err != nil {
				return err
			}
			if err := tx.Delete(place).Error; err != nil {
				return err
			}
			return tx.Model(&models.QueueEntry{}).Where("external_id=?", place.ExternalID).
				Updates(map[string]interface{}{"processed": false, "updated_at": time.Now().Unix()}).Error
		})
		if err != nil {
			log.Printf("Cleanup of place %d failed: %v", place.ID, err)
			continue
		}
		cleaned++
	}
	return cleaned, nil
}
