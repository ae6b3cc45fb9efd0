package storage

import (
	"context"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/google/uuid"
)

const complaintFolder = "complaints"

// ImageStore uploads complaint attachments and returns hosted URLs.
type ImageStore struct {
	CLD *cloudinary.Cloudinary
}

func NewImageStore(cloudName, apiKey, apiSecret string) (*ImageStore, error) {
	cld, err := cloudinary.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, err
	}
	return &ImageStore{CLD: cld}, nil
}

func (s *ImageStore) UploadImage(ctx context.Context, filePath string, folder string) (string, error) {
	// Unique public id so re-submitting the same local file never
	// overwrites an earlier attachment.
	resp, err := s.CLD.Upload.Upload(ctx, filePath, uploader.UploadParams{
		Folder:   folder,
		PublicID: uuid.New().String(),
	})
	if err != nil {
		return "", err
	}
	return resp.SecureURL, nil
}

// UploadAll replaces local file paths with hosted URLs. Entries that are
// already remote URLs pass through untouched.
func (s *ImageStore) UploadAll(ctx context.Context, paths []string) ([]string, error) {
	urls := make([]string, 0, len(paths))
	for _, p := range paths {
		if strings.HasPrefix(p, "http://") || strings.HasPrefix(p, "https://") {
			urls = append(urls, p)
			continue
		}
		url, err := s.UploadImage(ctx, p, complaintFolder)
		if err != nil {
			return nil, err
		}
		urls = append(urls, url)
	}
	return urls, nil
}
