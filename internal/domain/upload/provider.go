// internal/domain/upload/provider.go
package upload

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/your-org/eyewear-backend/internal/config"
)

// Provider stores uploaded file content and returns a servable URL.
type Provider interface {
	Store(ctx context.Context, filename, contentType string, data []byte) (string, error)
}

// LocalProvider stores files on the local filesystem
type LocalProvider struct {
	basePath string
	baseURL  string
	bucket   string
}

// NewLocalProvider creates a filesystem-backed storage provider
func NewLocalProvider(cfg *config.Config) *LocalProvider {
	return &LocalProvider{
		basePath: cfg.External.Storage.LocalPath,
		baseURL:  cfg.External.Storage.CDNBaseURL,
		bucket:   cfg.External.Storage.Bucket,
	}
}

// Store writes the file under basePath/bucket and returns its URL
func (p *LocalProvider) Store(ctx context.Context, filename, contentType string, data []byte) (string, error) {
	dir := filepath.Join(p.basePath, p.bucket)
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return "", fmt.Errorf("Bucket not found: %s", p.bucket)
	}

	fullPath := filepath.Join(dir, filename)
	if err := os.WriteFile(fullPath, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write file: %w", err)
	}

	if p.baseURL != "" {
		return fmt.Sprintf("%s/%s/%s", strings.TrimRight(p.baseURL, "/"), p.bucket, filename), nil
	}
	return fmt.Sprintf("/uploads/%s/%s", p.bucket, filename), nil
}

// IsMissingBucket reports whether a storage error indicates the target
// bucket does not exist, which the service treats as retryable via the
// inline encoder.
func IsMissingBucket(err error) bool {
	return err != nil && strings.Contains(err.Error(), "Bucket not found")
}

// EncodeDataURL renders file content as a base64 data URL so a missing
// bucket never loses a prescription.
func EncodeDataURL(contentType string, data []byte) string {
	return fmt.Sprintf("data:%s;base64,%s", contentType, base64.StdEncoding.EncodeToString(data))
}
