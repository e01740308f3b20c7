package llm

import (
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// ErrNotImage is returned when image data is not a recognised image type
var ErrNotImage = errors.New("not an image")

// Image is an inline image attached to a message
type Image struct {
	Name     string
	MIMEType string
	Data     []byte
}

// NewImage sniffs the MIME type of data and rejects non-image content
func NewImage(name string, data []byte) (Image, error) {
	mt := mimetype.Detect(data)
	if !strings.HasPrefix(mt.String(), "image/") {
		return Image{}, fmt.Errorf("%w: %s is %s", ErrNotImage, name, mt.String())
	}
	return Image{Name: name, MIMEType: mt.String(), Data: data}, nil
}

// LoadImage reads an image file from disk
func LoadImage(path string) (Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Image{}, err
	}
	return NewImage(filepath.Base(path), data)
}

// Base64 returns the standard base64 encoding of the image bytes
func (i Image) Base64() string {
	return base64.StdEncoding.EncodeToString(i.Data)
}

// DataURL returns the image as a data: URL
func (i Image) DataURL() string {
	mime := i.MIMEType
	if mime == "" {
		mime = "image/jpeg"
	}
	return "data:" + mime + ";base64," + i.Base64()
}
