package utils

import (
	"context"
	"fmt"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// CloudinaryConfig holds Cloudinary configuration. URL wins over the
// individual credentials when both are set.
type CloudinaryConfig struct {
	URL          string
	CloudName    string
	APIKey       string
	APISecret    string
	UploadPreset string
	Folder       string
}

func (c CloudinaryConfig) Enabled() bool {
	return c.URL != "" || (c.CloudName != "" && c.APIKey != "" && c.APISecret != "")
}

// Uploader pushes service photos to Cloudinary.
type Uploader struct {
	cld    *cloudinary.Cloudinary
	preset string
	folder string
}

func NewUploader(cfg CloudinaryConfig) (*Uploader, error) {
	var (
		cld *cloudinary.Cloudinary
		err error
	)
	if cfg.URL != "" {
		cld, err = cloudinary.NewFromURL(cfg.URL)
	} else {
		cld, err = cloudinary.NewFromParams(cfg.CloudName, cfg.APIKey, cfg.APISecret)
	}
	if err != nil {
		return nil, fmt.Errorf("cloudinary: %w", err)
	}
	return &Uploader{cld: cld, preset: cfg.UploadPreset, folder: cfg.Folder}, nil
}

// Upload sends file (a path, URL or io.Reader) and returns its secure URL.
func (u *Uploader) Upload(ctx context.Context, file interface{}, publicID string) (string, error) {
	resp, err := u.cld.Upload.Upload(ctx, file, uploader.UploadParams{
		PublicID:       publicID,
		Folder:         u.folder,
		UploadPreset:   u.preset,
		Transformation: "c_fill,w_800,h_600",
	})
	if err != nil {
		return "", err
	}
	if resp.Error.Message != "" {
		return "", fmt.Errorf("cloudinary: %s", resp.Error.Message)
	}
	return resp.SecureURL, nil
}
