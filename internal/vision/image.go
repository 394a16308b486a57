package vision

import (
	"bytes"
	"fmt"
	"math"

	"github.com/disintegration/imaging"
)

// maxImageArea caps the pixel area shipped to the recognizer. Larger
// uploads are downscaled preserving aspect ratio.
const maxImageArea = 400_000

// Image is a decoded, size-bounded request image ready for the vision
// sidecars.
type Image struct {
	Data   []byte `json:"-"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// DecodeImage validates that the payload is a decodable image, scales
// it down if its area exceeds maxImageArea, and re-encodes it as JPEG.
func DecodeImage(data []byte) (Image, error) {
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return Image{}, fmt.Errorf("failed to decode image: %w", err)
	}

	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	if area := w * h; area > maxImageArea {
		ratio := math.Sqrt(float64(maxImageArea) / float64(area))
		w = int(ratio * float64(w))
		h = int(ratio * float64(h))
		img = imaging.Resize(img, w, h, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG); err != nil {
		return Image{}, fmt.Errorf("failed to encode image: %w", err)
	}

	return Image{Data: buf.Bytes(), Width: w, Height: h}, nil
}
