package domain

import (
	"io"
	"time"
)

// AssetCategory is a logical storage namespace for uploaded files.
type AssetCategory string

const (
	CategoryUpload       AssetCategory = "uploads"
	CategoryProfileImage AssetCategory = "images"
	CategoryPDF          AssetCategory = "pdfs"
)

// Asset describes a stored file. It is not a persisted entity; the filename is
// referenced by whatever record owns it.
type Asset struct {
	Filename     string        `json:"filename"`
	OriginalName string        `json:"originalName"`
	Size         int64         `json:"size"`
	ContentType  string        `json:"contentType"`
	URL          string        `json:"url"`
	Category     AssetCategory `json:"category"`
	OwnerID      string        `json:"ownerId,omitempty"`
	Width        int           `json:"width,omitempty"`
	Height       int           `json:"height,omitempty"`
	CreatedAt    time.Time     `json:"createdAt"`
}

// Upload is an incoming file as received from the transport layer.
type Upload struct {
	OriginalName string
	ContentType  string
	Size         int64
	Content      io.Reader
}

// AssetRef points at a stored file without its metadata.
type AssetRef struct {
	Filename string
	Category AssetCategory
}
