package handlers

import (
	"log"
	"net/http"
	"strconv"

	"placepix/db"
	"placepix/models"
	"placepix/processing"

	"github.com/gin-gonic/gin"
)

type ImageDeleteRequest struct {
	IDs []uint64 `json:"ids" binding:"required"`
}

// ImageDelete removes image rows and their backing files. Deleting a top
// image drops the place back to unchecked - the curator has to pick again.
func ImageDelete(c *gin.Context) {
	r := ImageDeleteRequest{}
	if err := c.ShouldBindJSON(&r); err != nil {
		c.JSON(http.StatusBadRequest, Response{err.Error()})
		return
	}
	failed := []string{}
	for _, id := range r.IDs {
		image := models.Image{}
		err := db.Instance.Limit(1).Find(&image, id).Error
		if err != nil || image.ID != id {
			failed = append(failed, strconv.FormatUint(id, 10))
			log.Printf("Image %d: not found", id)
			continue
		}
		place := models.Place{}
		if db.Instance.Limit(1).Find(&place, image.PlaceID).Error != nil || place.ID != image.PlaceID {
			failed = append(failed, strconv.FormatUint(id, 10))
			log.Printf("Image %d: place %d missing", id, image.PlaceID)
			continue
		}
		if err = db.Instance.Delete(&image).Error; err != nil {
			failed = append(failed, strconv.FormatUint(id, 10))
			log.Printf("Image %d: delete error: %v", id, err)
			continue
		}
		processing.RemoveImageFile(&place, &image)
		if image.Top != nil && place.Checked {
			place.Checked = false
			if err = db.Instance.Model(&place).Select("checked").Updates(&place).Error; err != nil {
				log.Printf("Place %d: save error: %v", place.ID, err)
			}
		}
	}
	if len(failed) > 0 {
		c.JSON(http.StatusInternalServerError, MultiResponse{"Some images cannot be deleted", failed})
		return
	}
	c.JSON(http.StatusOK, OKMultiResponse)
}
