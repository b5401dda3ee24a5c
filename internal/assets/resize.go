package assets

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/disintegration/imaging"
)

// Kind selects the resize bound applied to an upload. Bounds are maxima;
// images smaller than the bound pass through at their original size.
type Kind string

const (
	KindImage       Kind = "image"        // standalone image elements
	KindSlide       Kind = "slide"        // carousel slides
	KindChoiceImage Kind = "choice_image" // image-choice options
	KindAvatar      Kind = "avatar"       // testimonial avatars
)

type bound struct {
	width    int
	height   int
	category string
}

var kindBounds = map[Kind]bound{
	KindImage:       {width: 1200, height: 900, category: "images"},
	KindSlide:       {width: 1200, height: 900, category: "slides"},
	KindChoiceImage: {width: 1200, height: 1200, category: "choices"},
	KindAvatar:      {width: 300, height: 300, category: "avatars"},
}

var extensionByMIME = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
	"image/bmp":  ".bmp",
	"image/tiff": ".tif",
}

// resizeImage downscales data to the bound for kind, preserving aspect
// ratio. GIFs pass through untouched so animation survives; formats imaging
// cannot re-encode (webp) also pass through. Images already inside the
// bound are returned as-is; the pipeline never upscales.
func resizeImage(data []byte, contentType string, kind Kind) ([]byte, error) {
	if contentType == "image/gif" || contentType == "image/webp" {
		return data, nil
	}

	limits, ok := kindBounds[kind]
	if !ok {
		limits = kindBounds[KindImage]
	}

	src, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("assets: decode image: %w", err)
	}

	size := src.Bounds().Size()
	if size.X <= limits.width && size.Y <= limits.height {
		return data, nil
	}

	resized := imaging.Fit(src, limits.width, limits.height, imaging.Lanczos)

	format, err := formatForContentType(contentType)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, resized, format, imaging.JPEGQuality(85)); err != nil {
		return nil, fmt.Errorf("assets: encode image: %w", err)
	}
	return buf.Bytes(), nil
}

func formatForContentType(contentType string) (imaging.Format, error) {
	switch contentType {
	case "image/jpeg":
		return imaging.JPEG, nil
	case "image/png":
		return imaging.PNG, nil
	case "image/bmp":
		return imaging.BMP, nil
	case "image/tiff":
		return imaging.TIFF, nil
	default:
		return imaging.JPEG, fmt.Errorf("assets: no encoder for %s", contentType)
	}
}

func extensionFor(contentType, filename string) string {
	if ext, ok := extensionByMIME[contentType]; ok {
		return ext
	}
	if idx := strings.LastIndex(filename, "."); idx >= 0 {
		return strings.ToLower(filename[idx:])
	}
	return ".bin"
}

func isImageContentType(contentType string) bool {
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(contentType)), "image/")
}
