package storage

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"net/http"

	"github.com/chai2010/webp"
	"golang.org/x/image/draw"
	xwebp "golang.org/x/image/webp"
)

const (
	MaxUploadBytes = 5 << 20
	ThumbnailWidth = 1280

	webpQuality = 80
)

var ErrUnsupportedImage = errors.New("only jpeg, png, gif and webp images are allowed")

var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

// NormalizeImage checks that data is an allowed image, scales it down to
// at most maxWidth pixels wide and re-encodes it as WebP.
func NormalizeImage(data []byte, maxWidth int) ([]byte, error) {
	if len(data) == 0 {
		return nil, ErrUnsupportedImage
	}
	if len(data) > MaxUploadBytes {
		return nil, fmt.Errorf("image larger than %d bytes", MaxUploadBytes)
	}

	contentType := http.DetectContentType(data)
	if !allowedImageTypes[contentType] {
		return nil, ErrUnsupportedImage
	}

	var (
		img image.Image
		err error
	)
	if contentType == "image/webp" {
		img, err = xwebp.Decode(bytes.NewReader(data))
	} else {
		img, _, err = image.Decode(bytes.NewReader(data))
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", contentType, err)
	}

	img = downscale(img, maxWidth)

	var out bytes.Buffer
	if err := webp.Encode(&out, img, &webp.Options{Quality: webpQuality}); err != nil {
		return nil, fmt.Errorf("encode webp: %w", err)
	}
	return out.Bytes(), nil
}

func downscale(img image.Image, maxWidth int) image.Image {
	b := img.Bounds()
	if maxWidth <= 0 || b.Dx() <= maxWidth {
		return img
	}

	h := b.Dy() * maxWidth / b.Dx()
	if h < 1 {
		h = 1
	}
	dst := image.NewRGBA(image.Rect(0, 0, maxWidth, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Over, nil)
	return dst
}
