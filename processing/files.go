package processing

import (
	"log"
	"os"

	"placepix/models"
	"placepix/storage"
)

// RemovePlaceFiles deletes the backing files of all of a place's images
// (local and remote). Database rows are the caller's business. The Images
// association must be preloaded.
func RemovePlaceFiles(place *models.Place) {
	for i := range place.Images {
		RemoveImageFile(place, &place.Images[i])
	}
}

// RemoveImageFile deletes the backing file of a single image
func RemoveImageFile(place *models.Place, image *models.Image) {
	store := storage.GetDefaultStorage()
	path := image.Path(place.Folder)
	if err := store.Delete(path); err != nil && !os.IsNotExist(err) {
		log.Printf("Image %d: delete error: %v", image.ID, err)
	}
	if err := store.DeleteRemoteFile(path); err != nil {
		log.Printf("Image %d: remote delete error: %v", image.ID, err)
	}
}
