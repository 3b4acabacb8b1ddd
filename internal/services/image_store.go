package services

import (
	"log"
	"os"
	"path/filepath"
)

// ImageStore removes uploaded image assets when their product goes away.
type ImageStore interface {
	Remove(imageURL string) error
}

// DiskImageStore stores uploads under a base directory, addressed by
// the URL path recorded on the product.
type DiskImageStore struct {
	BaseDir string
}

// Remove deletes the asset backing imageURL. A missing file is not an
// error; the listing may never have had an upload.
func (s DiskImageStore) Remove(imageURL string) error {
	if imageURL == "" {
		return nil
	}
	path := filepath.Join(s.BaseDir, filepath.Base(imageURL))
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// noopImageStore is used when no asset storage is configured.
type noopImageStore struct{}

func (noopImageStore) Remove(string) error { return nil }

// removeImage drops the asset best-effort; a failed removal never
// blocks the product mutation that triggered it.
func removeImage(store ImageStore, imageURL string) {
	if store == nil {
		store = noopImageStore{}
	}
	if err := store.Remove(imageURL); err != nil {
		log.Printf("Warning: failed to remove image asset %s: %v", imageURL, err)
	}
}
