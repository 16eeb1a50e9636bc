package forms

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"strings"

	"github.com/nfnt/resize"
)

var ErrNotADataURL = errors.New("not a base64 image data URL")

const jpegQuality = 80

// ParseDataURL splits a "data:image/...;base64," URL into its media type
// and decoded bytes.
func ParseDataURL(dataURL string) (mediaType string, data []byte, err error) {
	rest, found := strings.CutPrefix(dataURL, "data:")
	if !found {
		return "", nil, ErrNotADataURL
	}

	meta, payload, found := strings.Cut(rest, ",")
	if !found {
		return "", nil, ErrNotADataURL
	}

	mediaType, encoding, found := strings.Cut(meta, ";")
	if !found || encoding != "base64" {
		return "", nil, ErrNotADataURL
	}

	data, err = base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, fmt.Errorf("failed to decode data URL payload: %w", err)
	}
	return mediaType, data, nil
}

// EncodeDataURL renders bytes as a base64 data URL.
func EncodeDataURL(mediaType string, data []byte) string {
	return "data:" + mediaType + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// ProcessImageDataURL prepares an uploaded image for embedding: decode,
// downscale when either dimension exceeds maxDim (aspect ratio kept),
// and re-encode. PNG input stays PNG; everything else becomes JPEG.
// maxDim zero skips the downscale entirely.
func ProcessImageDataURL(dataURL string, maxDim uint) (string, error) {
	_, data, err := ParseDataURL(dataURL)
	if err != nil {
		return "", err
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("failed to decode image: %w", err)
	}

	if maxDim > 0 {
		bounds := img.Bounds()
		if uint(bounds.Dx()) > maxDim || uint(bounds.Dy()) > maxDim {
			img = resize.Thumbnail(maxDim, maxDim, img, resize.Lanczos3)
		}
	}

	var buf bytes.Buffer
	if format == "png" {
		if err := png.Encode(&buf, img); err != nil {
			return "", fmt.Errorf("failed to encode image: %w", err)
		}
		return EncodeDataURL("image/png", buf.Bytes()), nil
	}

	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return "", fmt.Errorf("failed to encode image: %w", err)
	}
	return EncodeDataURL("image/jpeg", buf.Bytes()), nil
}
