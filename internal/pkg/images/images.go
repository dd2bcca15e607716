package images

import (
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

var ErrInvalidImage = errors.New("invalid image payload")

// Store writes base64 data-URI images under a media root and hands back
// their public /media/... paths.
type Store struct {
	root string
}

func NewStore(root string) *Store {
	return &Store{root: root}
}

// IsDataURI reports whether the payload is an inline base64 image rather
// than an already-stored path.
func IsDataURI(s string) bool {
	return strings.HasPrefix(s, "data:image/")
}

// SaveDataURI decodes a "data:image/<ext>;base64,<data>" payload, stores it
// under <root>/recipes/images/ with a random name, and returns the public path.
func (s *Store) SaveDataURI(data string) (string, error) {
	if !IsDataURI(data) {
		return "", ErrInvalidImage
	}

	meta, encoded, found := strings.Cut(data, ";base64,")
	if !found || encoded == "" {
		return "", ErrInvalidImage
	}

	ext := strings.TrimPrefix(meta, "data:image/")
	if ext == "" || strings.ContainsAny(ext, "/\\.") {
		return "", ErrInvalidImage
	}

	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", ErrInvalidImage
	}

	dir := filepath.Join(s.root, "recipes", "images")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}

	name := fmt.Sprintf("%s.%s", uuid.NewString(), ext)
	if err := os.WriteFile(filepath.Join(dir, name), raw, 0o644); err != nil {
		return "", err
	}

	return "/media/recipes/images/" + name, nil
}
