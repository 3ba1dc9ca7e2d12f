//go:build unit

package tracker

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestParseDataURL tests screenshot data-URL decoding
func TestParseDataURL(t *testing.T) {
	pngBytes := []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}
	pngEncoded := base64.StdEncoding.EncodeToString(pngBytes)

	tests := []struct {
		name         string
		raw          string
		expectError  bool
		expectedName string
		expectedType string
		expectedData []byte
	}{
		{
			name:         "png screenshot",
			raw:          "data:image/png;base64," + pngEncoded,
			expectError:  false,
			expectedName: "screenshot.png",
			expectedType: "image/png",
			expectedData: pngBytes,
		},
		{
			name:         "jpeg uses jpg extension",
			raw:          "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString([]byte("jpegdata")),
			expectError:  false,
			expectedName: "screenshot.jpg",
			expectedType: "image/jpeg",
			expectedData: []byte("jpegdata"),
		},
		{
			name:        "not a data URL",
			raw:         "https://example.com/screenshot.png",
			expectError: true,
		},
		{
			name:        "missing payload separator",
			raw:         "data:image/png;base64",
			expectError: true,
		},
		{
			name:        "unsupported encoding",
			raw:         "data:image/png;base32," + pngEncoded,
			expectError: true,
		},
		{
			name:        "invalid base64 payload",
			raw:         "data:image/png;base64,!!!not-base64!!!",
			expectError: true,
		},
		{
			name:        "unsupported media type",
			raw:         "data:application/pdf;base64," + pngEncoded,
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img, err := ParseDataURL(tt.raw)

			if tt.expectError {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.expectedName, img.Name)
			assert.Equal(t, tt.expectedType, img.ContentType)
			assert.Equal(t, tt.expectedData, img.Data)
		})
	}
}
