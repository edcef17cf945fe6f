package models

// Image is one downloaded photograph of a Place. FileName is the generated
// on-disk name inside the place's folder; SourceURL/Source/Author/License
// record where it came from. Top is 1..3 once a curator has picked it.
type Image struct {
	ID        uint64 `gorm:"primaryKey"`
	PlaceID   uint64 `gorm:"index;not null"`
	FileName  string `gorm:"type:varchar(300);not null"`
	SourceURL string `gorm:"type:varchar(2000)"`
	Source    string `gorm:"type:varchar(50)"`
	Author    string `gorm:"type:varchar(300)"`
	License   string `gorm:"type:varchar(300)"`
	Top       *uint8
	CreatedAt int64
}

// Path returns the storage path of the image inside its place folder
func (i *Image) Path(folder string) string {
	return folder + "/" + i.FileName
}
