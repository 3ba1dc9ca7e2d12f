package tracker

import (
	"encoding/base64"
	"fmt"
	"strings"
)

// File names used for uploaded screenshots, keyed by media type.
var imageExtensions = map[string]string{
	"image/png":  "png",
	"image/jpeg": "jpg",
	"image/gif":  "gif",
	"image/webp": "webp",
}

// ParseDataURL decodes a data-URL screenshot (the form the feedback
// widget submits) into a transport-ready image. It does not upload;
// upload ordering is backend-specific.
func ParseDataURL(raw string) (*Image, error) {
	rest, ok := strings.CutPrefix(raw, "data:")
	if !ok {
		return nil, fmt.Errorf("image is not a data URL")
	}

	meta, encoded, ok := strings.Cut(rest, ",")
	if !ok {
		return nil, fmt.Errorf("image data URL has no payload")
	}

	contentType, encoding, _ := strings.Cut(meta, ";")
	if encoding != "base64" {
		return nil, fmt.Errorf("unsupported image encoding %q", encoding)
	}

	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("error decoding image payload: %w", err)
	}

	ext, ok := imageExtensions[contentType]
	if !ok {
		return nil, fmt.Errorf("unsupported image type %q", contentType)
	}

	return &Image{
		Name:        "screenshot." + ext,
		ContentType: contentType,
		Data:        data,
	}, nil
}
