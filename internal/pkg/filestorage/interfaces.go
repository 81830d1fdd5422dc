package filestorage

import "mime/multipart"

// PublicPrefix is the URL path under which stored files are served and the
// prefix of every path persisted in the database.
const PublicPrefix = "uploads"

// FileStorage defines the interface for file storage operations
type FileStorage interface {
	// SaveFile stores the upload under a generated name starting with namePrefix
	// and returns the stored path ("uploads/<name>").
	SaveFile(fileHeader *multipart.FileHeader, namePrefix string) (string, error)

	// DeleteFile removes a stored file. Missing files are not an error.
	DeleteFile(storedPath string) error

	// GetFullPath returns the filesystem path for a stored path
	GetFullPath(storedPath string) string
}
