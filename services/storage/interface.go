package storage

import (
	"context"

	"github.com/cloudinary/cloudinary-go/v2"
)

// StorageService handles chat photo uploads.
type StorageService interface {
	UploadChatPhoto(ctx context.Context, localFilePath, conversationID string) (string, error)
	DeleteFile(ctx context.Context, publicID string) error
}

// StorageServiceImpl is the Cloudinary-backed implementation.
type StorageServiceImpl struct {
	cld *cloudinary.Cloudinary
}
