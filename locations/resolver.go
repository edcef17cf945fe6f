package locations

import (
	"errors"
	"strconv"
	"strings"

	"placepix/db"
	"placepix/models"

	cmap "github.com/orcaman/concurrent-map/v2"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrMissingLocation = errors.New("both country and city names are required")

	// Process-wide caches. Country/city sets are small and append-only, so
	// entries are never invalidated.
	countryCache = cmap.New[uint64]()
	cityCache    = cmap.New[uint64]()
)

// Resolve finds-or-creates the Country and City rows for the given names.
// Cache misses go through an authoritative locked read inside the caller's
// transaction, so two concurrent tasks racing on the same name serialize on
// the row lock and the loser observes the winner's row. The cache is only
// populated after that read, never speculatively.
func Resolve(tx *gorm.DB, countryName, cityName string) (country models.Country, city models.City, err error) {
	countryName = strings.TrimSpace(countryName)
	cityName = strings.TrimSpace(cityName)
	if countryName == "" || cityName == "" {
		return country, city, ErrMissingLocation
	}

	if id, ok := countryCache.Get(countryName); ok {
		country = models.Country{ID: id, Name: countryName}
	} else {
		country.Name = countryName
		if err = findOrCreate(tx, &country, "name=?", countryName); err != nil {
			return
		}
		countryCache.Set(countryName, country.ID)
	}

	cityKey := cityName + "|" + strconv.FormatUint(country.ID, 10)
	if id, ok := cityCache.Get(cityKey); ok {
		city = models.City{ID: id, Name: cityName, CountryID: country.ID}
		return
	}
	city.Name = cityName
	city.CountryID = country.ID
	if err = findOrCreate(tx, &city, "name=? AND country_id=?", cityName, country.ID); err != nil {
		return
	}
	cityCache.Set(cityKey, city.ID)
	return
}

// findOrCreate reads the candidate row under a write lock and creates it
// when absent. A duplicate-key failure means we lost a race that the lock
// could not cover (SQLite has no FOR UPDATE), so the row is re-read.
func findOrCreate(tx *gorm.DB, dest interface{}, query string, args ...interface{}) error {
	q := tx
	if db.IsMySQL() {
		q = tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	if err := q.Where(query, args...).Limit(1).Find(dest).Error; err != nil {
		return err
	}
	if hasID(dest) {
		return nil
	}
	if err := tx.Create(dest).Error; err != nil {
		if !isDuplicateErr(err) {
			return err
		}
		return tx.Where(query, args...).Limit(1).Find(dest).Error
	}
	return nil
}

func hasID(dest interface{}) bool {
	switch v := dest.(type) {
	case *models.Country:
		return v.ID > 0
	case *models.City:
		return v.ID > 0
	}
	return false
}

func isDuplicateErr(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "Duplicate entry") || strings.Contains(msg, "UNIQUE constraint failed")
}

// ResetCache drops all cached mappings. Only used by tests.
func ResetCache() {
	countryCache.Clear()
	cityCache.Clear()
}
