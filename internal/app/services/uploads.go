package services

import (
	"fmt"
	"mime/multipart"

	"github.com/internlink/internlink/internal/pkg/apperrors"
	"github.com/internlink/internlink/internal/pkg/filestorage"
	"github.com/internlink/internlink/internal/pkg/logger"
)

// uploadBatch tracks the files touched by one request. Files written with
// save are removed by rollback; files marked with retire are removed by
// commit, once the database no longer points at them.
type uploadBatch struct {
	storage  filestorage.FileStorage
	saved    []string
	retiring []string
}

func newUploadBatch(storage filestorage.FileStorage) *uploadBatch {
	return &uploadBatch{storage: storage}
}

func (b *uploadBatch) save(fh *multipart.FileHeader, prefix string) (string, error) {
	stored, err := b.storage.SaveFile(fh, prefix)
	if err != nil {
		return "", fmt.Errorf("%w: %v", apperrors.ErrStorageFailure, err)
	}
	if stored != "" {
		b.saved = append(b.saved, stored)
	}
	return stored, nil
}

func (b *uploadBatch) retire(stored *string) {
	if stored == nil || *stored == "" {
		return
	}
	for _, p := range b.retiring {
		if p == *stored {
			return
		}
	}
	b.retiring = append(b.retiring, *stored)
}

func (b *uploadBatch) rollback() {
	for _, p := range b.saved {
		if err := b.storage.DeleteFile(p); err != nil {
			logger.Warn().Err(err).Str("path", p).Msg("Failed to remove upload after aborted write")
		}
	}
	b.saved = nil
}

func (b *uploadBatch) commit() {
	for _, p := range b.retiring {
		if err := b.storage.DeleteFile(p); err != nil {
			logger.Warn().Err(err).Str("path", p).Msg("Failed to remove superseded upload")
		}
	}
	b.retiring = nil
	b.saved = nil
}

// hasFile reports whether the multipart field carried an actual file
func hasFile(fh *multipart.FileHeader) bool {
	return fh != nil && fh.Filename != ""
}
