package models

import (
	"testing"

	"placepix/db"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T, name string) {
	t.Helper()
	instance, err := gorm.Open(sqlite.Open("file:"+name+"?mode=memory&cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatal(err)
	}
	db.Instance = instance
	Init()
}

func TestPlaceStatus(t *testing.T) {
	tests := []struct {
		name  string
		place Place
		want  string
	}{
		{"fresh place", Place{}, StatusUnchecked},
		{"needs attention", Place{NeedsAttention: true}, StatusNeedsAttention},
		{"checked", Place{Checked: true}, StatusChecked},
		{"to be deleted wins", Place{Checked: true, ToBeDeleted: true}, StatusToBeDeleted},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.place.Status(); got != tt.want {
				t.Errorf("Status() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestApplyYield(t *testing.T) {
	place := Place{Checked: true}
	place.ApplyYield(0)
	if !place.NeedsAttention || place.Checked {
		t.Errorf("zero yield: needs_attention=%v checked=%v", place.NeedsAttention, place.Checked)
	}
	place.ApplyYield(5)
	if place.NeedsAttention || place.Checked {
		t.Errorf("non-zero yield: needs_attention=%v checked=%v", place.NeedsAttention, place.Checked)
	}
	if place.LastModification == 0 {
		t.Error("last_modification not bumped")
	}
}

func createPlaceWithImages(t *testing.T, externalID string, imageCount int) *Place {
	t.Helper()
	place := &Place{ExternalID: externalID, Name: "Test Place", Category: CategoryAttraction}
	if err := db.Instance.Create(place).Error; err != nil {
		t.Fatal(err)
	}
	for i := 0; i < imageCount; i++ {
		image := Image{PlaceID: place.ID, FileName: "f.jpg", Source: "wikipedia"}
		if err := db.Instance.Create(&image).Error; err != nil {
			t.Fatal(err)
		}
		place.Images = append(place.Images, image)
	}
	return place
}

func TestSetTopImages(t *testing.T) {
	setupTestDB(t, "place_top")
	place := createPlaceWithImages(t, "p1", 5)
	other := createPlaceWithImages(t, "p2", 1)

	ids := func(idx ...int) []uint64 {
		result := []uint64{}
		for _, i := range idx {
			result = append(result, place.Images[i].ID)
		}
		return result
	}

	tests := []struct {
		name    string
		ids     []uint64
		wantErr error
	}{
		{"too few", ids(0, 1), ErrTopImageCount},
		{"too many", ids(0, 1, 2, 3), ErrTopImageCount},
		{"duplicate", []uint64{place.Images[0].ID, place.Images[0].ID, place.Images[1].ID}, ErrTopImageCount},
		{"foreign image", []uint64{place.Images[0].ID, place.Images[1].ID, other.Images[0].ID}, ErrTopImageMissing},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := db.Instance.Transaction(func(tx *gorm.DB) error {
				return place.SetTopImages(tx, tt.ids)
			})
			if err != tt.wantErr {
				t.Errorf("SetTopImages(%v) = %v, want %v", tt.ids, err, tt.wantErr)
			}
		})
	}

	// A valid selection assigns ranks 1..3 in the submitted order
	selection := ids(2, 0, 4)
	err := db.Instance.Transaction(func(tx *gorm.DB) error {
		return place.SetTopImages(tx, selection)
	})
	if err != nil {
		t.Fatal(err)
	}
	if !place.Checked || place.NeedsAttention {
		t.Errorf("after top selection: checked=%v needs_attention=%v", place.Checked, place.NeedsAttention)
	}
	images := []Image{}
	if err = db.Instance.Where("place_id=?", place.ID).Find(&images).Error; err != nil {
		t.Fatal(err)
	}
	ranks := map[uint64]uint8{}
	topCount := 0
	for _, img := range images {
		if img.Top != nil {
			ranks[img.ID] = *img.Top
			topCount++
		}
	}
	if topCount != 3 {
		t.Fatalf("expected exactly 3 ranked images, got %d", topCount)
	}
	for i, id := range selection {
		if ranks[id] != uint8(i+1) {
			t.Errorf("image %d: rank %d, want %d", id, ranks[id], i+1)
		}
	}

	// Re-selecting moves the ranks, it never accumulates them
	err = db.Instance.Transaction(func(tx *gorm.DB) error {
		return place.SetTopImages(tx, ids(1, 2, 3))
	})
	if err != nil {
		t.Fatal(err)
	}
	var ranked int64
	db.Instance.Model(&Image{}).Where("place_id=? AND top IS NOT NULL", place.ID).Count(&ranked)
	if ranked != 3 {
		t.Errorf("expected 3 ranked images after re-selection, got %d", ranked)
	}
}

func TestMarkNeedsAttention(t *testing.T) {
	setupTestDB(t, "place_attention")
	place := createPlaceWithImages(t, "p3", 1)
	place.Checked = true
	if err := db.Instance.Save(place).Error; err != nil {
		t.Fatal(err)
	}
	if err := place.MarkNeedsAttention(db.Instance, "blurry photos"); err != nil {
		t.Fatal(err)
	}
	reloaded := Place{}
	db.Instance.First(&reloaded, place.ID)
	if !reloaded.NeedsAttention || reloaded.Checked {
		t.Errorf("needs_attention=%v checked=%v", reloaded.NeedsAttention, reloaded.Checked)
	}
	if reloaded.Details != "blurry photos" {
		t.Errorf("details = %q", reloaded.Details)
	}
}

func TestAppendDetails(t *testing.T) {
	place := Place{}
	place.AppendDetails("maps: request failed")
	place.AppendDetails("instagram: profile not found")
	if place.Details != "maps: request failed\ninstagram: profile not found" {
		t.Errorf("details = %q", place.Details)
	}
	// The same line from a later processing run must not accumulate
	place.AppendDetails("maps: request failed")
	place.AppendDetails("instagram: profile not found")
	if place.Details != "maps: request failed\ninstagram: profile not found" {
		t.Errorf("details after repeat = %q", place.Details)
	}
}

func TestPlaceFolderDefault(t *testing.T) {
	setupTestDB(t, "place_folder")
	place := Place{ExternalID: "ext-42", Name: "X", Category: CategoryBusiness}
	if err := db.Instance.Create(&place).Error; err != nil {
		t.Fatal(err)
	}
	if place.Folder != "ext-42" {
		t.Errorf("folder = %q, want external id", place.Folder)
	}
}
