package handlers

import (
	"log"
	"net/http"
	"time"

	"placepix/config"
	"placepix/db"
	"placepix/models"
	"placepix/processing"

	"github.com/gin-gonic/gin"
)

type QueueAddEntry struct {
	ExternalID   string   `json:"external_id" binding:"required"`
	Name         string   `json:"name" binding:"required"`
	NameFallback string   `json:"name_fallback"`
	Category     string   `json:"category" binding:"required"`
	Address      string   `json:"address"`
	GpsLat       *float64 `json:"gps_lat"`
	GpsLong      *float64 `json:"gps_long"`
	SocialHandle string   `json:"social_handle"`
	City         string   `json:"city" binding:"required"`
	Country      string   `json:"country" binding:"required"`
	Famous       bool     `json:"famous"`
}

type QueueAddRequest struct {
	Entries []QueueAddEntry `json:"entries" binding:"required"`
}

type QueueDrainRequest struct {
	Count int `json:"count"`
}

type QueueCleanupRequest struct {
	Signature string `json:"signature"`
}

// QueueAdd enqueues a batch of place descriptors. Idempotent per external
// id: re-submitting a place updates the existing queue row instead of
// duplicating it. A bad descriptor fails alone, never the batch.
func QueueAdd(c *gin.Context) {
	r := QueueAddRequest{}
	if err := c.ShouldBindJSON(&r); err != nil {
		c.JSON(http.StatusBadRequest, Response{err.Error()})
		return
	}
	failed := []string{}
	for _, in := range r.Entries {
		if in.Category != models.CategoryBusiness && in.Category != models.CategoryAttraction {
			failed = append(failed, in.ExternalID)
			continue
		}
		entry := models.QueueEntry{}
		err := db.Instance.Where("external_id=?", in.ExternalID).Limit(1).Find(&entry).Error
		if err != nil {
			log.Printf("Queue entry %s: %v", in.ExternalID, err)
			failed = append(failed, in.ExternalID)
			continue
		}
		entry.ExternalID = in.ExternalID
		entry.Name = in.Name
		entry.NameFallback = in.NameFallback
		entry.Category = in.Category
		entry.Address = in.Address
		entry.GpsLat = in.GpsLat
		entry.GpsLong = in.GpsLong
		entry.SocialHandle = in.SocialHandle
		entry.CityName = in.City
		entry.CountryName = in.Country
		entry.Famous = in.Famous
		entry.Processed = false
		now := time.Now().Unix()
		entry.UpdatedAt = now
		if entry.ID == 0 {
			entry.CreatedAt = now
			err = db.Instance.Create(&entry).Error
		} else {
			err = db.Instance.Save(&entry).Error
		}
		if err != nil {
			log.Printf("Queue entry %s: %v", in.ExternalID, err)
			failed = append(failed, in.ExternalID)
		}
	}
	if len(failed) > 0 {
		c.JSON(http.StatusBadRequest, MultiResponse{"Some entries could not be queued", failed})
		return
	}
	c.JSON(http.StatusOK, OKMultiResponse)
}

// QueueDrain runs one drain pass right now (the background loop keeps
// running regardless)
func QueueDrain(c *gin.Context) {
	r := QueueDrainRequest{}
	_ = c.ShouldBindJSON(&r)
	if r.Count <= 0 {
		r.Count = config.QUEUE_BATCH_SIZE
	}
	n, err := processing.DrainBatch(r.Count)
	if err != nil {
		c.JSON(http.StatusInternalServerError, Response{err.Error()})
		return
	}
	c.JSON(http.StatusOK, CountResponse{Count: int64(n)})
}

// QueueSweep reconciles processed flags against actual Place existence
func QueueSweep(c *gin.Context) {
	n, err := processing.Sweep()
	if err != nil {
		c.JSON(http.StatusInternalServerError, Response{err.Error()})
		return
	}
	c.JSON(http.StatusOK, CountResponse{Count: n})
}

// QueueCleanup re-queues places that only failed transiently
func QueueCleanup(c *gin.Context) {
	r := QueueCleanupRequest{}
	_ = c.ShouldBindJSON(&r)
	n, err := processing.Cleanup(r.Signature)
	if err != nil {
		c.JSON(http.StatusInternalServerError, Response{err.Error()})
		return
	}
	c.JSON(http.StatusOK, CountResponse{Count: int64(n)})
}
