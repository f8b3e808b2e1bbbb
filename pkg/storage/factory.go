package storage

import (
	"fmt"

	"github.com/christine-iyer/fix-the-damn-truck/internal/config"
)

// New builds the storage provider selected by configuration.
func New(cfg *config.StorageConfig) (Provider, error) {
	switch cfg.Provider {
	case "local":
		return NewLocalStorage(cfg.Local.BasePath, cfg.Local.BaseURL)
	case "aws":
		return NewAWSS3Storage(cfg.AWS.Region, cfg.AWS.Bucket)
	case "gcp":
		return NewGCPStorage(cfg.GCP.Bucket, cfg.GCP.CredentialsFile)
	default:
		return nil, fmt.Errorf("unsupported storage provider: %s", cfg.Provider)
	}
}
