package utils

import (
	"bytes"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"io"

	"github.com/nfnt/resize"
)

const (
	// Anything larger than this gets downscaled on ingestion
	MaxImageDimension = 1920
	jpegQuality       = 90
)

type ImageConverted struct {
	Size   int64
	Width  uint16
	Height uint16
}

// NormalizeJPEG decodes whatever encoding the source used (JPEG, PNG, GIF),
// caps the dimensions and re-encodes as JPEG
func NormalizeJPEG(reader io.Reader, writer io.Writer) (result ImageConverted, err error) {
	decoded, _, err := image.Decode(reader)
	if err != nil {
		return result, err
	}
	var newBuf bytes.Buffer
	newImage := resize.Thumbnail(MaxImageDimension, MaxImageDimension, decoded, resize.Lanczos3)
	if err = jpeg.Encode(&newBuf, newImage, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return
	}
	imageRect := newImage.Bounds().Size()
	result.Width = uint16(imageRect.X)
	result.Height = uint16(imageRect.Y)
	result.Size, err = io.Copy(writer, &newBuf)
	return
}
