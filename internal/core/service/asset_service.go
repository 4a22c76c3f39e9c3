package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	_ "golang.org/x/image/webp"

	"github.com/devfolio/portfolio-api/internal/core/domain"
	"github.com/devfolio/portfolio-api/internal/core/ports"
)

const defaultMaxUploadSize int64 = 5 << 20

// allowedTypes maps every accepted content type to the extensions it may carry.
// The first extension is canonical.
var allowedTypes = map[string][]string{
	"image/jpeg":      {".jpg", ".jpeg"},
	"image/png":       {".png"},
	"image/gif":       {".gif"},
	"image/webp":      {".webp"},
	"application/pdf": {".pdf"},
}

// namespace describes where a category lives and what it accepts.
type namespace struct {
	dir     string
	urlPath string
	prefix  string
	accepts func(contentType string) bool
}

var namespaces = map[domain.AssetCategory]namespace{
	domain.CategoryUpload: {
		dir: "uploads", urlPath: "upload", prefix: "file",
		accepts: func(string) bool { return true },
	},
	domain.CategoryProfileImage: {
		dir: "public/images", urlPath: "images", prefix: "profile",
		accepts: func(ct string) bool { return strings.HasPrefix(ct, "image/") },
	},
	domain.CategoryPDF: {
		dir: "pdfs", urlPath: "pdfs", prefix: "pdf",
		accepts: func(ct string) bool { return ct == "application/pdf" },
	},
}

// ParseCategory maps a path segment to a category.
func ParseCategory(s string) (domain.AssetCategory, error) {
	c := domain.AssetCategory(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := namespaces[c]; !ok {
		return "", domain.ErrUnknownCategory
	}
	return c, nil
}

// AssetConfig is injected into the asset service at construction.
type AssetConfig struct {
	BaseURL       string
	MaxUploadSize int64
}

// AssetService validates uploads and places them in a BlobStorage.
type AssetService struct {
	storage ports.BlobStorage
	baseURL string
	maxSize int64
	logger  zerolog.Logger
	now     func() time.Time
}

var _ ports.AssetStore = (*AssetService)(nil)

func NewAssetService(storage ports.BlobStorage, cfg AssetConfig, logger zerolog.Logger) *AssetService {
	if cfg.MaxUploadSize <= 0 {
		cfg.MaxUploadSize = defaultMaxUploadSize
	}
	return &AssetService{
		storage: storage,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		maxSize: cfg.MaxUploadSize,
		logger:  logger,
		now:     time.Now,
	}
}

// Validate checks a declared content type against the allow-list.
func (s *AssetService) Validate(contentType string) error {
	if _, ok := allowedTypes[normalizeContentType(contentType)]; !ok {
		return fmt.Errorf("%w: %q", domain.ErrUnsupportedMediaType, contentType)
	}
	return nil
}

// Store validates upload for category, gives it a fresh name and writes it.
func (s *AssetService) Store(ctx context.Context, upload domain.Upload, category domain.AssetCategory, ownerID string) (*domain.Asset, error) {
	ns, ok := namespaces[category]
	if !ok {
		return nil, domain.ErrUnknownCategory
	}
	if upload.Content == nil {
		return nil, domain.ErrMissingFile
	}

	declared := normalizeContentType(upload.ContentType)
	if err := s.Validate(declared); err != nil {
		return nil, err
	}
	if !ns.accepts(declared) {
		return nil, fmt.Errorf("%w: %s not accepted for %s", domain.ErrUnsupportedMediaType, declared, category)
	}
	if upload.Size > s.maxSize {
		return nil, domain.ErrPayloadTooLarge
	}

	data, err := io.ReadAll(io.LimitReader(upload.Content, s.maxSize+1))
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	if int64(len(data)) > s.maxSize {
		return nil, domain.ErrPayloadTooLarge
	}
	if len(data) == 0 {
		return nil, domain.ErrMissingFile
	}

	sniffed := normalizeContentType(mimetype.Detect(data).String())
	if _, ok := allowedTypes[sniffed]; !ok || !ns.accepts(sniffed) {
		return nil, fmt.Errorf("%w: content looks like %s", domain.ErrUnsupportedMediaType, sniffed)
	}

	asset := &domain.Asset{
		Filename:     s.generateName(ns.prefix, ownerID, upload.OriginalName, sniffed),
		OriginalName: filepath.Base(upload.OriginalName),
		Size:         int64(len(data)),
		ContentType:  sniffed,
		Category:     category,
		OwnerID:      ownerID,
		CreatedAt:    s.now().UTC(),
	}
	if strings.HasPrefix(sniffed, "image/") {
		if cfg, _, err := image.DecodeConfig(bytes.NewReader(data)); err == nil {
			asset.Width, asset.Height = cfg.Width, cfg.Height
		}
	}

	if err := s.storage.EnsureNamespace(ctx, ns.dir); err != nil {
		return nil, fmt.Errorf("provision %s: %w", category, err)
	}
	if err := s.storage.Put(ctx, ns.dir, asset.Filename, bytes.NewReader(data), asset.Size, sniffed); err != nil {
		return nil, fmt.Errorf("store %s: %w", asset.Filename, err)
	}
	asset.URL = s.URLFor(asset.Filename, category)

	s.logger.Info().
		Str("filename", asset.Filename).
		Str("category", string(category)).
		Int64("size", asset.Size).
		Msg("asset stored")
	return asset, nil
}

// URLFor derives the public URL of a stored file. It performs no I/O.
func (s *AssetService) URLFor(filename string, category domain.AssetCategory) string {
	ns, ok := namespaces[category]
	if !ok {
		return ""
	}
	return s.baseURL + "/" + ns.urlPath + "/" + filename
}

func (s *AssetService) Open(ctx context.Context, filename string, category domain.AssetCategory) (io.ReadCloser, *ports.BlobInfo, error) {
	ns, ok := namespaces[category]
	if !ok {
		return nil, nil, domain.ErrUnknownCategory
	}
	if !validStoredName(filename) {
		return nil, nil, domain.ErrNotFound
	}
	return s.storage.Open(ctx, ns.dir, filename)
}

// Delete removes a stored file. Missing files are not an error.
func (s *AssetService) Delete(ctx context.Context, filename string, category domain.AssetCategory) error {
	ns, ok := namespaces[category]
	if !ok {
		return domain.ErrUnknownCategory
	}
	if !validStoredName(filename) {
		s.logger.Debug().Str("filename", filename).Msg("delete skipped: not a stored name")
		return nil
	}

	err := s.storage.Remove(ctx, ns.dir, filename)
	if errors.Is(err, domain.ErrNotFound) {
		s.logger.Debug().Str("filename", filename).Str("category", string(category)).Msg("asset already absent")
		return nil
	}
	if err != nil {
		return fmt.Errorf("delete %s: %w", filename, err)
	}
	s.logger.Info().Str("filename", filename).Str("category", string(category)).Msg("asset deleted")
	return nil
}

// generateName never uses the client-supplied name beyond a vetted extension.
func (s *AssetService) generateName(prefix, ownerID, originalName, contentType string) string {
	var b strings.Builder
	b.WriteString(prefix)
	b.WriteByte('-')
	if owner := sanitizeSegment(ownerID); owner != "" {
		b.WriteString(owner)
		b.WriteByte('-')
	}
	b.WriteString(uuid.NewString())
	b.WriteString(extensionFor(originalName, contentType))
	return b.String()
}

func extensionFor(originalName, contentType string) string {
	exts := allowedTypes[contentType]
	if len(exts) == 0 {
		return ""
	}
	ext := strings.ToLower(filepath.Ext(originalName))
	for _, allowed := range exts {
		if ext == allowed {
			return ext
		}
	}
	return exts[0]
}

func sanitizeSegment(s string) string {
	var b strings.Builder
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// validStoredName rejects anything that could escape a namespace.
func validStoredName(name string) bool {
	if name == "" || name == "." || name == ".." {
		return false
	}
	return !strings.ContainsAny(name, `/\`) && !strings.Contains(name, "..") && !strings.ContainsRune(name, 0)
}

func normalizeContentType(ct string) string {
	if i := strings.IndexByte(ct, ';'); i >= 0 {
		ct = ct[:i]
	}
	return strings.ToLower(strings.TrimSpace(ct))
}
