package service

import (
	"context"
	"io"
	"log/slog"

	"github.com/avicena/avicena/internal/api"
	"github.com/avicena/avicena/internal/domain"
)

// FileService uploads files (doctor photos, clinic images). Uploads are
// not cached: the returned URL is referenced by a later create/update,
// whose own invalidation refreshes dependent reads.
type FileService struct {
	api    *api.Client
	logger *slog.Logger
}

// NewFileService creates a new file upload service
func NewFileService(client *api.Client, logger *slog.Logger) *FileService {
	if logger == nil {
		logger = slog.Default()
	}
	return &FileService{api: client, logger: logger}
}

// Upload sends one file and returns its public URL.
func (s *FileService) Upload(ctx context.Context, filename string, r io.Reader) (*domain.UploadedFile, error) {
	uploaded, err := s.api.UploadFile(ctx, filename, r)
	if err != nil {
		s.logger.Error("file upload failed", "filename", filename, "error", err)
		return nil, err
	}
	s.logger.Info("file uploaded", "filename", filename, "url", uploaded.URL)
	return uploaded, nil
}
