// internal/domain/upload/entity.go
package upload

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

// Upload categories
const (
	CategoryPrescription = "prescription"
	CategoryProduct      = "product"
	CategoryGeneral      = "general"
)

// UploadedFile represents an uploaded file in the database
type UploadedFile struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	OriginalName string `gorm:"not null;size:255" json:"original_name"`
	Filename     string `gorm:"not null;size:255;uniqueIndex" json:"filename"`
	URL          string `gorm:"not null" json:"url"`
	MimeType     string `gorm:"not null;size:100" json:"mime_type"`
	Size         int64  `gorm:"not null" json:"size"`
	Category     string `gorm:"size:50;index" json:"category"`

	// Inline indicates the URL is a base64 data URL rather than a stored object
	Inline bool `gorm:"default:false" json:"inline"`

	UploadedBy uint `gorm:"not null;index" json:"uploaded_by"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName overrides
func (UploadedFile) TableName() string { return "uploaded_files" }

// IsImage checks if the file is an image
func (f *UploadedFile) IsImage() bool {
	imageTypes := []string{
		"image/jpeg", "image/png", "image/gif",
		"image/webp", "application/pdf",
	}

	for _, imageType := range imageTypes {
		if f.MimeType == imageType {
			return true
		}
	}
	return false
}

// GetFormattedSize returns human-readable file size
func (f *UploadedFile) GetFormattedSize() string {
	const unit = 1024
	if f.Size < unit {
		return fmt.Sprintf("%d B", f.Size)
	}

	div, exp := int64(unit), 0
	for n := f.Size / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}

	return fmt.Sprintf("%.1f %cB", float64(f.Size)/float64(div), "KMGTPE"[exp])
}
