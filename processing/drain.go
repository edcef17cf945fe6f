package processing

import (
	"errors"
	"log"
	"sync"
	"time"

	"placepix/config"
	"placepix/db"
	"placepix/locations"
	"placepix/models"
	"placepix/providers"

	"gorm.io/gorm"
)

// Providers is the active provider set. Wired from config in Init, swapped
// for fakes in tests.
var Providers *providers.Set

func Init() {
	Providers = providers.DefaultSet()
}

type entryTask struct {
	entry  *models.QueueEntry
	cityID *uint64
	done   bool // Reached a terminal outcome - safe to flip processed
}

// DrainBatch picks up the n oldest unprocessed queue entries, resolves
// their locations, fans the business and tourist-attraction partitions out
// concurrently and finally flips processed on every entry that reached a
// terminal outcome. Entries that failed transiently stay unprocessed and
// are picked up again by a later drain (at-least-once, the persistence
// layer upserts). An empty queue is a zero result, not an error.
func DrainBatch(n int) (int, error) {
	entries := []models.QueueEntry{}
	err := db.Instance.Where("processed=?", false).Order("created_at ASC").Limit(n).Find(&entries).Error
	if err != nil {
		return 0, err
	}
	if len(entries) == 0 {
		return 0, nil
	}

	var business, attractions []*entryTask
	tasks := make([]*entryTask, 0, len(entries))
	for i := range entries {
		task := &entryTask{entry: &entries[i]}
		tasks = append(tasks, task)
		// Make sure the (country, city) pair exists before any dispatch
		err = db.Instance.Transaction(func(tx *gorm.DB) error {
			_, city, err := locations.Resolve(tx, task.entry.CountryName, task.entry.CityName)
			if err != nil {
				return err
			}
			id := city.ID
			task.cityID = &id
			return nil
		})
		if err != nil {
			if errors.Is(err, locations.ErrMissingLocation) {
				// Missing input rejects this single entry, never the batch
				task.done = persistRejected(task.entry, err.Error())
			} else {
				log.Printf("Entry %s: location resolve error: %v", task.entry.ExternalID, err)
			}
			continue
		}
		if task.entry.IsBusiness() {
			business = append(business, task)
		} else {
			attractions = append(attractions, task)
		}
	}

	// Both partitions run concurrently, places within one in queue order
	var wg sync.WaitGroup
	for _, partition := range [][]*entryTask{business, attractions} {
		wg.Add(1)
		go func(partition []*entryTask) {
			defer wg.Done()
			for _, task := range partition {
				task.done = processEntry(task.entry, task.cityID)
			}
		}(partition)
	}
	wg.Wait()

	processed := 0
	for _, task := range tasks {
		if !task.done {
			continue
		}
		if err = task.entry.MarkProcessed(db.Instance); err != nil {
			log.Printf("Entry %s: cannot mark processed: %v", task.entry.ExternalID, err)
			continue
		}
		processed++
	}
	return processed, nil
}

// processEntry returns true when the entry reached a terminal outcome
// (place persisted, with or without images)
func processEntry(entry *models.QueueEntry, cityID *uint64) (terminal bool) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Entry %s: panic: %v", entry.ExternalID, r)
			terminal = false
		}
	}()
	outcome := Providers.Acquire(entry)
	var stored []StoredImage
	if outcome.Yield() > 0 {
		stored = Materialize(placeFolder(entry), FlattenOutcome(outcome))
	}
	// Zero yield is a defined outcome, not an error: the place lands in
	// needs_attention with the provider errors as details
	if err := PersistPlace(entry, cityID, outcome, stored); err != nil {
		log.Printf("Entry %s: persist error: %v", entry.ExternalID, err)
		return false
	}
	return true
}

// placeFolder returns the storage folder new files must land in. A place
// that already exists may carry a folder differing from the external id.
func placeFolder(entry *models.QueueEntry) string {
	place := models.Place{}
	db.Instance.Select("folder").Where("external_id=?", entry.ExternalID).Limit(1).Find(&place)
	if place.Folder != "" {
		return place.Folder
	}
	return entry.ExternalID
}

func persistRejected(entry *models.QueueEntry, reason string) bool {
	outcome := &providers.Outcome{Errors: []string{reason}}
	if err := PersistPlace(entry, nil, outcome, nil); err != nil {
		log.Printf("Entry %s: persist error: %v", entry.ExternalID, err)
		return false
	}
	return true
}

// StartProcessing drains the queue forever, sleeping while it is empty
func StartProcessing() {
	for {
		n, err := DrainBatch(config.QUEUE_BATCH_SIZE)
		if err != nil {
			log.Printf("Drain error: %v", err)
		}
		if n == 0 {
			time.Sleep(time.Duration(config.DRAIN_INTERVAL) * time.Second)
		}
	}
}
