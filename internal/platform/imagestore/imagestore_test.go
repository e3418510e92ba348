package imagestore

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shop_backend/internal/feature/product/usecase"
)

func pngBytes(t *testing.T) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func jpegBytes(t *testing.T) []byte {
	t.Helper()

	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, image.NewGray(image.Rect(0, 0, 2, 2)), nil))
	return buf.Bytes()
}

func TestReadImage(t *testing.T) {
	pngData := pngBytes(t)
	jpegData := jpegBytes(t)

	tests := []struct {
		name     string
		data     []byte
		maxBytes int64
		wantType string
		wantExt  string
		wantErr  error
	}{
		{name: "png", data: pngData, maxBytes: 1 << 20, wantType: "image/png", wantExt: ".png"},
		{name: "jpeg", data: jpegData, maxBytes: 1 << 20, wantType: "image/jpeg", wantExt: ".jpg"},
		{name: "exactly at cap", data: pngData, maxBytes: int64(len(pngData)), wantType: "image/png", wantExt: ".png"},
		{name: "one byte over cap", data: pngData, maxBytes: int64(len(pngData)) - 1, wantErr: usecase.ErrImageTooLarge},
		{name: "text", data: []byte("MZ not really an image"), maxBytes: 1 << 20, wantErr: usecase.ErrUnsupportedImage},
		{name: "gif", data: []byte("GIF89a\x01\x00\x01\x00"), maxBytes: 1 << 20, wantErr: usecase.ErrUnsupportedImage},
		{name: "empty", data: nil, maxBytes: 1 << 20, wantErr: usecase.ErrUnsupportedImage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, contentType, ext, err := readImage(bytes.NewReader(tt.data), tt.maxBytes)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.data, data)
			assert.Equal(t, tt.wantType, contentType)
			assert.Equal(t, tt.wantExt, ext)
		})
	}
}

func TestNewName_Unique(t *testing.T) {
	seen := make(map[string]struct{})
	for range 100 {
		name := newName(".png")
		assert.True(t, strings.HasSuffix(name, ".png"))
		_, dup := seen[name]
		assert.False(t, dup, "duplicate name %s", name)
		seen[name] = struct{}{}
	}
}

func TestValidName(t *testing.T) {
	for name, want := range map[string]bool{
		"abc-123.png":     true,
		"photo.jpg":       true,
		"":                false,
		".staging":        false,
		"..":              false,
		"../secret.png":   false,
		"a/b.png":         false,
		`a\b.png`:         false,
		"staging/abc.png": false,
		".hidden.png":     false,
	} {
		assert.Equal(t, want, validName(name), name)
	}
}
