// internal/domain/upload/service.go
package upload

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/your-org/eyewear-backend/internal/config"
)

// Service handles file upload business logic
type Service struct {
	db       *gorm.DB
	config   *config.Config
	provider Provider
}

// NewService creates a new upload service
func NewService(db *gorm.DB, cfg *config.Config, provider Provider) *Service {
	return &Service{
		db:       db,
		config:   cfg,
		provider: provider,
	}
}

// UploadRequest represents a file upload request
type UploadRequest struct {
	File       multipart.File        `json:"-"`
	Header     *multipart.FileHeader `json:"-"`
	Category   string                `json:"category"`
	UploadedBy uint                  `json:"uploaded_by"`
}

// UploadResult is what callers get back after a successful upload
type UploadResult struct {
	URL    string `json:"url"`
	Inline bool   `json:"inline"`
	FileID uint   `json:"file_id"`
}

var mimeByExtension = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".webp": "image/webp",
	".pdf":  "application/pdf",
}

// Upload validates and stores a file. When the storage provider reports
// a missing bucket the content is retried through the inline data-URL
// encoder so the caller still gets a usable URL.
func (s *Service) Upload(ctx context.Context, req *UploadRequest) (*UploadResult, error) {
	if err := s.validateFile(req.Header); err != nil {
		return nil, err
	}

	data, err := io.ReadAll(io.LimitReader(req.File, s.config.Upload.MaxSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}
	if int64(len(data)) > s.config.Upload.MaxSize {
		return nil, fmt.Errorf("file exceeds maximum size of %d bytes", s.config.Upload.MaxSize)
	}

	ext := strings.ToLower(filepath.Ext(req.Header.Filename))
	contentType := mimeByExtension[ext]
	filename := s.generateUniqueFilename(req.Header.Filename)

	category := req.Category
	if category == "" {
		category = CategoryGeneral
	}

	inline := false
	url, err := s.provider.Store(ctx, filename, contentType, data)
	if err != nil {
		if !IsMissingBucket(err) {
			return nil, fmt.Errorf("failed to store file: %w", err)
		}
		url = EncodeDataURL(contentType, data)
		inline = true
	}

	uploadedFile := UploadedFile{
		OriginalName: req.Header.Filename,
		Filename:     filename,
		URL:          url,
		MimeType:     contentType,
		Size:         int64(len(data)),
		Category:     category,
		Inline:       inline,
		UploadedBy:   req.UploadedBy,
	}

	if err := s.db.WithContext(ctx).Create(&uploadedFile).Error; err != nil {
		return nil, fmt.Errorf("failed to save file info: %w", err)
	}

	return &UploadResult{
		URL:    uploadedFile.URL,
		Inline: uploadedFile.Inline,
		FileID: uploadedFile.ID,
	}, nil
}

// UploadPrescription stores a prescription file for the lens wizard
func (s *Service) UploadPrescription(ctx context.Context, userID uint, file multipart.File, header *multipart.FileHeader) (*UploadResult, error) {
	return s.Upload(ctx, &UploadRequest{
		File:       file,
		Header:     header,
		Category:   CategoryPrescription,
		UploadedBy: userID,
	})
}

// GetFile looks up an uploaded file record
func (s *Service) GetFile(ctx context.Context, fileID uint) (*UploadedFile, error) {
	var file UploadedFile
	if err := s.db.WithContext(ctx).First(&file, fileID).Error; err != nil {
		return nil, fmt.Errorf("file not found")
	}
	return &file, nil
}

// DeleteFile removes an uploaded file record
func (s *Service) DeleteFile(ctx context.Context, userID, fileID uint) error {
	result := s.db.WithContext(ctx).
		Where("id = ? AND uploaded_by = ?", fileID, userID).
		Delete(&UploadedFile{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete file: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("file not found")
	}
	return nil
}

// validateFile checks extension and declared size
func (s *Service) validateFile(header *multipart.FileHeader) error {
	if header == nil {
		return fmt.Errorf("no file provided")
	}
	if header.Size > s.config.Upload.MaxSize {
		return fmt.Errorf("file exceeds maximum size of %d bytes", s.config.Upload.MaxSize)
	}

	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(header.Filename), "."))
	for _, allowed := range s.config.Upload.AllowedExtensions {
		if ext == strings.ToLower(allowed) {
			return nil
		}
	}
	return fmt.Errorf("file type .%s is not allowed", ext)
}

// generateUniqueFilename keeps the original extension on a uuid name
func (s *Service) generateUniqueFilename(original string) string {
	ext := strings.ToLower(filepath.Ext(original))
	return fmt.Sprintf("%d-%s%s", time.Now().UnixMilli(), uuid.New().String()[:8], ext)
}
