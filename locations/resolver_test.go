package locations

import (
	"sync"
	"testing"

	"placepix/db"
	"placepix/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T, name string) {
	t.Helper()
	instance, err := gorm.Open(sqlite.Open("file:"+name+"?mode=memory&cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatal(err)
	}
	// A single connection serializes concurrent transactions the way the
	// MySQL row lock does in production
	sqlDB, err := instance.DB()
	if err != nil {
		t.Fatal(err)
	}
	sqlDB.SetMaxOpenConns(1)
	db.Instance = instance
	models.Init()
	ResetCache()
}

func TestResolveCreatesAndReuses(t *testing.T) {
	setupTestDB(t, "resolver_basic")

	var firstCity models.City
	err := db.Instance.Transaction(func(tx *gorm.DB) error {
		country, city, err := Resolve(tx, "France", "Paris")
		if err != nil {
			return err
		}
		if country.ID == 0 || city.ID == 0 {
			t.Errorf("expected created rows, got country=%d city=%d", country.ID, city.ID)
		}
		firstCity = city
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}

	// Second resolve with untrimmed names must hit the same rows
	err = db.Instance.Transaction(func(tx *gorm.DB) error {
		_, city, err := Resolve(tx, " France ", " Paris ")
		if err != nil {
			return err
		}
		if city.ID != firstCity.ID {
			t.Errorf("expected city %d to be reused, got %d", firstCity.ID, city.ID)
		}
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}

	// Same city name in another country is a different row
	err = db.Instance.Transaction(func(tx *gorm.DB) error {
		_, city, err := Resolve(tx, "USA", "Paris")
		if err != nil {
			return err
		}
		if city.ID == firstCity.ID {
			t.Error("Paris/USA must not reuse Paris/France")
		}
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
}

func TestResolveMissingInput(t *testing.T) {
	setupTestDB(t, "resolver_missing")
	tests := []struct {
		country string
		city    string
	}{
		{"", "Paris"},
		{"France", ""},
		{"  ", "  "},
	}
	for _, tt := range tests {
		err := db.Instance.Transaction(func(tx *gorm.DB) error {
			_, _, err := Resolve(tx, tt.country, tt.city)
			return err
		})
		if err != ErrMissingLocation {
			t.Errorf("Resolve(%q, %q): expected ErrMissingLocation, got %v", tt.country, tt.city, err)
		}
	}
}

func TestResolveConcurrentNoDuplicates(t *testing.T) {
	setupTestDB(t, "resolver_concurrent")

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := db.Instance.Transaction(func(tx *gorm.DB) error {
				_, _, err := Resolve(tx, "Italy", "Rome")
				return err
			})
			if err != nil {
				t.Errorf("Resolve: %v", err)
			}
		}()
	}
	wg.Wait()

	var countries, cities int64
	db.Instance.Model(&models.Country{}).Where("name=?", "Italy").Count(&countries)
	db.Instance.Model(&models.City{}).Where("name=?", "Rome").Count(&cities)
	if countries != 1 {
		t.Errorf("expected exactly 1 country row, got %d", countries)
	}
	if cities != 1 {
		t.Errorf("expected exactly 1 city row, got %d", cities)
	}
}
