package filestorage

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/eyecare/visionai/internal/pkg/logger"
)

// Storage is the interface scan and article uploads are saved through.
type Storage interface {
	// Save stores the uploaded file under the given subdirectory and returns
	// the relative path it can be served from.
	Save(fileHeader *multipart.FileHeader, subDir string) (string, error)

	// Delete removes a previously stored file.
	Delete(relPath string) error

	// URL returns the public URL for a stored relative path.
	URL(relPath string) string
}

// LocalStorage handles saving files to the local filesystem.
type LocalStorage struct {
	basePath string // root directory where files are stored
	baseURL  string // base URL the stored files are served from
}

// NewLocalStorage creates a new LocalStorage instance. basePath is created if
// it does not exist.
func NewLocalStorage(basePath, baseURL string) (*LocalStorage, error) {
	if err := os.MkdirAll(basePath, os.ModePerm); err != nil {
		logger.Error().Err(err).Str("path", basePath).Msg("Failed to create storage directory")
		return nil, fmt.Errorf("failed to create storage directory %s: %w", basePath, err)
	}
	logger.Info().Str("path", basePath).Msg("Local storage directory ensured")

	return &LocalStorage{
		basePath: basePath,
		baseURL:  strings.TrimSuffix(baseURL, "/"),
	}, nil
}

// Save stores an uploaded file under basePath/subDir with a generated name,
// keeping the original extension. Returns the path relative to basePath.
func (ls *LocalStorage) Save(fileHeader *multipart.FileHeader, subDir string) (string, error) {
	if fileHeader == nil {
		return "", fmt.Errorf("no file provided")
	}

	file, err := fileHeader.Open()
	if err != nil {
		logger.Error().Err(err).Str("filename", fileHeader.Filename).Msg("Failed to open uploaded file")
		return "", fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer file.Close()

	dirPath := ls.basePath
	if subDir != "" {
		dirPath = filepath.Join(ls.basePath, subDir)
		if err := os.MkdirAll(dirPath, os.ModePerm); err != nil {
			logger.Error().Err(err).Str("path", dirPath).Msg("Failed to create subdirectory")
			return "", fmt.Errorf("failed to create subdirectory: %w", err)
		}
	}

	// Random name avoids collisions and hides the uploader's filename.
	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	storedName := uuid.New().String() + ext
	fullPath := filepath.Join(dirPath, storedName)

	dst, err := os.Create(fullPath)
	if err != nil {
		logger.Error().Err(err).Str("path", fullPath).Msg("Failed to create destination file")
		return "", fmt.Errorf("failed to create destination file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, file); err != nil {
		logger.Error().Err(err).Str("path", fullPath).Msg("Failed to write uploaded file")
		return "", fmt.Errorf("failed to write uploaded file: %w", err)
	}

	relPath := storedName
	if subDir != "" {
		relPath = filepath.ToSlash(filepath.Join(subDir, storedName))
	}
	return relPath, nil
}

// Delete removes a stored file. Missing files are not an error.
func (ls *LocalStorage) Delete(relPath string) error {
	if relPath == "" {
		return nil
	}
	fullPath := filepath.Join(ls.basePath, filepath.FromSlash(relPath))
	if err := os.Remove(fullPath); err != nil && !os.IsNotExist(err) {
		logger.Error().Err(err).Str("path", fullPath).Msg("Failed to delete stored file")
		return fmt.Errorf("failed to delete stored file: %w", err)
	}
	return nil
}

// URL returns the public URL for a stored relative path.
func (ls *LocalStorage) URL(relPath string) string {
	if relPath == "" {
		return ""
	}
	return ls.baseURL + "/" + strings.TrimPrefix(relPath, "/")
}
