package utils

import (
	"bytes"
	"image"
	"image/jpeg"
	"image/png"
	"testing"
)

func TestNormalizeJPEG(t *testing.T) {
	tests := []struct {
		name       string
		width      int
		height     int
		wantWidth  uint16
		wantHeight uint16
	}{
		{"small stays", 100, 50, 100, 50},
		{"wide gets capped", MaxImageDimension * 2, MaxImageDimension, MaxImageDimension, MaxImageDimension / 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := image.NewRGBA(image.Rect(0, 0, tt.width, tt.height))
			var in, out bytes.Buffer
			if err := png.Encode(&in, src); err != nil {
				t.Fatal(err)
			}
			result, err := NormalizeJPEG(&in, &out)
			if err != nil {
				t.Fatalf("NormalizeJPEG: %v", err)
			}
			if result.Width != tt.wantWidth || result.Height != tt.wantHeight {
				t.Errorf("got %dx%d, want %dx%d", result.Width, result.Height, tt.wantWidth, tt.wantHeight)
			}
			if result.Size != int64(out.Len()) {
				t.Errorf("reported size %d, written %d", result.Size, out.Len())
			}
			// The output must decode as JPEG regardless of the input encoding
			if _, err = jpeg.Decode(&out); err != nil {
				t.Errorf("output is not a valid JPEG: %v", err)
			}
		})
	}
}

func TestNormalizeJPEGRejectsGarbage(t *testing.T) {
	var out bytes.Buffer
	if _, err := NormalizeJPEG(bytes.NewReader([]byte("not an image")), &out); err == nil {
		t.Error("expected a decode error")
	}
}
