// Package imagestore keeps uploaded product images. Uploads are staged under
// fresh names, published with Commit and served by name.
package imagestore

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	"shop_backend/internal/feature/product/usecase"
)

// allowedTypes maps accepted content types to the extension stored names get.
var allowedTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
}

// readImage reads src up to maxBytes and checks that the content is JPEG or PNG.
// It returns the bytes, the detected content type and the extension to store under.
func readImage(src io.Reader, maxBytes int64) ([]byte, string, string, error) {
	data, err := io.ReadAll(io.LimitReader(src, maxBytes+1))
	if err != nil {
		return nil, "", "", fmt.Errorf("failed to read upload: %w", err)
	}
	if int64(len(data)) > maxBytes {
		return nil, "", "", usecase.ErrImageTooLarge
	}

	for mt := mimetype.Detect(data); mt != nil; mt = mt.Parent() {
		if ext, ok := allowedTypes[mt.String()]; ok {
			return data, mt.String(), ext, nil
		}
	}
	return nil, "", "", usecase.ErrUnsupportedImage
}

func newName(ext string) string {
	return uuid.NewString() + ext
}

// validName reports whether name is a single, non-hidden path element.
func validName(name string) bool {
	return name != "" &&
		name == filepath.Base(name) &&
		!strings.HasPrefix(name, ".") &&
		!strings.ContainsAny(name, `/\`)
}
