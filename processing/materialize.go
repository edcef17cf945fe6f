package processing

import (
	"bytes"
	"fmt"
	"log"
	"sync"
	"time"

	"placepix/fetch"
	"placepix/providers"
	"placepix/storage"
	"placepix/utils"

	"github.com/google/uuid"
)

// SourcedItem is a download candidate with the provider it came from
type SourcedItem struct {
	providers.Item
	Source string
}

// StoredImage describes one image written to durable storage
type StoredImage struct {
	FileName  string
	SourceURL string
	Source    string
	Author    string
	License   string
}

// FlattenOutcome turns the per-source item map into a single download list
func FlattenOutcome(out *providers.Outcome) []SourcedItem {
	items := []SourcedItem{}
	for source, list := range out.ItemsBySource {
		for _, item := range list {
			items = append(items, SourcedItem{Item: item, Source: source})
		}
	}
	return items
}

// Materialize downloads all candidates into the place folder, re-encoding
// everything as JPEG under a generated unique name. Downloads run
// concurrently and independently: one failed item is logged and skipped,
// never aborting its siblings.
func Materialize(folder string, items []SourcedItem) []StoredImage {
	store := storage.GetDefaultStorage()
	stored := []StoredImage{}
	var (
		wg sync.WaitGroup
		mu sync.Mutex
	)
	for _, item := range items {
		wg.Add(1)
		go func(item SourcedItem) {
			defer wg.Done()
			data := fetch.WithRetry(item.URL)
			if data == nil {
				log.Printf("Skipping %s (%s): download failed", item.URL, item.Source)
				return
			}
			buf := bytes.Buffer{}
			if _, err := utils.NormalizeJPEG(bytes.NewReader(data), &buf); err != nil {
				log.Printf("Skipping %s (%s): %v", item.URL, item.Source, err)
				return
			}
			// Timestamp plus random suffix keeps names unique even when the
			// same place is re-processed
			fileName := fmt.Sprintf("%s_%d_%s.jpg", folder, time.Now().UnixNano(), uuid.NewString()[:8])
			path := folder + "/" + fileName
			if _, err := store.Save(path, &buf); err != nil {
				log.Printf("Cannot save %s: %v", path, err)
				return
			}
			if err := store.UpdateFile(path, "image/jpeg"); err != nil {
				log.Printf("Cannot upload %s: %v", path, err)
				return
			}
			store.ReleaseLocalFile(path)
			mu.Lock()
			stored = append(stored, StoredImage{
				FileName:  fileName,
				SourceURL: item.URL,
				Source:    item.Source,
				Author:    item.Author,
				License:   item.License,
			})
			mu.Unlock()
		}(item)
	}
	wg.Wait()
	return stored
}
