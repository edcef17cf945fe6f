package handlers

import (
	"errors"
	"log"
	"net/http"

	"placepix/db"
	"placepix/models"
	"placepix/processing"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type PlaceListRequest struct {
	Status string `form:"status"`
}

type PlaceTopRequest struct {
	PlaceID  uint64   `json:"place_id" binding:"required"`
	ImageIDs []uint64 `json:"image_ids" binding:"required"`
}

type PlaceAttentionRequest struct {
	PlaceID uint64 `json:"place_id" binding:"required"`
	Details string `json:"details"`
}

type PlaceDeleteRequest struct {
	IDs   []uint64 `json:"ids" binding:"required"`
	Purge bool     `json:"purge"` // Remove rows and files instead of just flagging
}

type ImageInfo struct {
	ID       uint64 `json:"id"`
	FileName string `json:"file_name"`
	Source   string `json:"source"`
	Author   string `json:"author"`
	License  string `json:"license"`
	Top      *uint8 `json:"top"`
}

type PlaceInfo struct {
	ID           uint64      `json:"id"`
	ExternalID   string      `json:"external_id"`
	Name         string      `json:"name"`
	NameOriginal string      `json:"name_original"`
	Category     string      `json:"category"`
	City         string      `json:"city"`
	Country      string      `json:"country"`
	Folder       string      `json:"folder"`
	Status       string      `json:"status"`
	Details      string      `json:"details"`
	Images       []ImageInfo `json:"images"`
}

// PlaceList is the review feed, optionally filtered by lifecycle state
func PlaceList(c *gin.Context) {
	r := PlaceListRequest{}
	_ = c.ShouldBindQuery(&r)
	tx := db.Instance.Preload("Images").Preload("City").Preload("City.Country")
	switch r.Status {
	case models.StatusChecked:
		tx = tx.Where("checked=?", true)
	case models.StatusNeedsAttention:
		tx = tx.Where("needs_attention=? AND checked=?", true, false)
	case models.StatusToBeDeleted:
		tx = tx.Where("to_be_deleted=?", true)
	case models.StatusUnchecked:
		tx = tx.Where("checked=? AND needs_attention=? AND to_be_deleted=?", false, false, false)
	case "":
	default:
		c.JSON(http.StatusBadRequest, Response{"unknown status filter"})
		return
	}
	places := []models.Place{}
	if err := tx.Order("last_modification DESC").Find(&places).Error; err != nil {
		c.JSON(http.StatusInternalServerError, DBError1Response)
		return
	}
	result := make([]PlaceInfo, 0, len(places))
	for i := range places {
		result = append(result, placeInfoFrom(&places[i]))
	}
	c.JSON(http.StatusOK, result)
}

func placeInfoFrom(place *models.Place) PlaceInfo {
	info := PlaceInfo{
		ID:           place.ID,
		ExternalID:   place.ExternalID,
		Name:         place.Name,
		NameOriginal: place.NameOriginal,
		Category:     place.Category,
		City:         place.City.Name,
		Country:      place.City.Country.Name,
		Folder:       place.Folder,
		Status:       place.Status(),
		Details:      place.Details,
	}
	for _, img := range place.Images {
		info.Images = append(info.Images, ImageInfo{
			ID:       img.ID,
			FileName: img.FileName,
			Source:   img.Source,
			Author:   img.Author,
			License:  img.License,
			Top:      img.Top,
		})
	}
	return info
}

// PlaceTop stores the curator's top image selection and marks the place
// checked. The selection must be exactly the configured number of distinct
// images belonging to this place.
func PlaceTop(c *gin.Context) {
	r := PlaceTopRequest{}
	if err := c.ShouldBindJSON(&r); err != nil {
		c.JSON(http.StatusBadRequest, Response{err.Error()})
		return
	}
	place := models.Place{}
	if db.Instance.Limit(1).Find(&place, r.PlaceID).Error != nil || place.ID != r.PlaceID {
		c.JSON(http.StatusNotFound, NopeResponse)
		return
	}
	err := db.Instance.Transaction(func(tx *gorm.DB) error {
		return place.SetTopImages(tx, r.ImageIDs)
	})
	if err != nil {
		if errors.Is(err, models.ErrTopImageCount) || errors.Is(err, models.ErrTopImageMissing) {
			c.JSON(http.StatusBadRequest, Response{err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, DBError2Response)
		return
	}
	c.JSON(http.StatusOK, OKResponse)
}

// PlaceAttention is the curator "flag a problem" action
func PlaceAttention(c *gin.Context) {
	r := PlaceAttentionRequest{}
	if err := c.ShouldBindJSON(&r); err != nil {
		c.JSON(http.StatusBadRequest, Response{err.Error()})
		return
	}
	place := models.Place{}
	if db.Instance.Limit(1).Find(&place, r.PlaceID).Error != nil || place.ID != r.PlaceID {
		c.JSON(http.StatusNotFound, NopeResponse)
		return
	}
	if err := place.MarkNeedsAttention(db.Instance, r.Details); err != nil {
		c.JSON(http.StatusInternalServerError, DBError2Response)
		return
	}
	c.JSON(http.StatusOK, OKResponse)
}

// PlaceDelete flags places for deletion, or with purge removes the rows,
// the owned image rows and the backing files
func PlaceDelete(c *gin.Context) {
	r := PlaceDeleteRequest{}
	if err := c.ShouldBindJSON(&r); err != nil {
		c.JSON(http.StatusBadRequest, Response{err.Error()})
		return
	}
	failed := []string{}
	for _, id := range r.IDs {
		place := models.Place{}
		err := db.Instance.Preload("Images").Limit(1).Find(&place, id).Error
		if err != nil || place.ID != id {
			failed = append(failed, place.ExternalID)
			log.Printf("Place %d: not found", id)
			continue
		}
		if !r.Purge {
			place.ToBeDeleted = true
			place.Checked = false
			place.NeedsAttention = false
			if err = db.Instance.Model(&place).Select("to_be_deleted", "checked", "needs_attention").Updates(&place).Error; err != nil {
				failed = append(failed, place.ExternalID)
				log.Printf("Place %d: save error: %v", id, err)
			}
			continue
		}
		processing.RemovePlaceFiles(&place)
		err = db.Instance.Transaction(func(tx *gorm.DB) error {
			if err := tx.Where("place_id=?", place.ID).Delete(&models.Image{}).Error; err != nil {
				return err
			}
			return tx.Delete(&place).Error
		})
		if err != nil {
			failed = append(failed, place.ExternalID)
			log.Printf("Place %d: delete error: %v", id, err)
		}
	}
	if len(failed) > 0 {
		c.JSON(http.StatusInternalServerError, MultiResponse{"Some places cannot be deleted", failed})
		return
	}
	c.JSON(http.StatusOK, OKMultiResponse)
}
