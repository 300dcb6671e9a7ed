package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"billdesk/internal/config"
	"billdesk/internal/domain"
	"billdesk/internal/extraction"
	"billdesk/internal/logger"
	"billdesk/internal/port"
)

const (
	rawLogLimit     = 2048
	scanURLValidity = 15 * time.Minute
)

// ExtractResult is the extracted bill data plus, when archiving is enabled,
// the storage key of the original image.
type ExtractResult struct {
	*domain.BillData
	ImageKey string `json:"image_key,omitempty"`
	ImageURL string `json:"image_url,omitempty"`
}

// ExtractionService turns bill images into structured BillData.
type ExtractionService interface {
	Extract(ctx context.Context, imagePath string) (*domain.BillData, error)
	ExtractUpload(ctx context.Context, data []byte) (*ExtractResult, error)
}

type extractionService struct {
	extractor port.BillExtractor
	archive   port.ScanArchive
	cfg       *config.ExtractionConfig
	log       *zap.Logger
}

// NewExtractionService creates a new ExtractionService. archive may be nil,
// in which case uploaded images are not archived.
func NewExtractionService(
	extractor port.BillExtractor,
	archive port.ScanArchive,
	cfg *config.ExtractionConfig,
	log *zap.Logger,
) ExtractionService {
	return &extractionService{extractor: extractor, archive: archive, cfg: cfg, log: log}
}

func (s *extractionService) maxBytes() int64 {
	mb := s.cfg.MaxImageMB
	if mb <= 0 {
		mb = 10
	}
	return mb << 20
}

// Extract sends the image at imagePath to the configured provider and parses
// its reply. The file is only read, never removed.
func (s *extractionService) Extract(ctx context.Context, imagePath string) (*domain.BillData, error) {
	data, err := os.ReadFile(imagePath)
	if err != nil {
		return nil, fmt.Errorf("extractionService.Extract: reading image: %w", err)
	}
	if int64(len(data)) > s.maxBytes() {
		return nil, domain.ErrImageTooLarge
	}
	contentType, _, err := extraction.DetectImageType(data)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	out, err := s.extractor.Extract(ctx, port.ExtractInput{ImageBytes: data, ContentType: contentType})
	if err != nil {
		s.log.Error("bill extraction call failed",
			zap.String("content_type", contentType),
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err),
		)
		if !errors.Is(err, domain.ErrExtractionFailed) {
			err = fmt.Errorf("%w: %v", domain.ErrExtractionFailed, err)
		}
		return nil, err
	}

	s.log.Debug("bill extraction response",
		zap.String("model", out.ModelUsed),
		zap.Duration("elapsed", time.Since(start)),
		zap.String("raw", logger.Truncate(out.Text, rawLogLimit)),
	)

	bill, err := extraction.ParseBillData(out.Text)
	if err != nil {
		s.log.Warn("bill extraction returned unparseable output",
			zap.String("model", out.ModelUsed),
			zap.String("raw", logger.Truncate(out.Text, rawLogLimit)),
			zap.Error(err),
		)
		return nil, err
	}
	return bill, nil
}

// ExtractUpload stages data in a temporary file, optionally archives it and
// runs Extract. The temporary file is removed on every path.
func (s *extractionService) ExtractUpload(ctx context.Context, data []byte) (*ExtractResult, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("empty image: %w", domain.ErrInvalidInput)
	}
	if int64(len(data)) > s.maxBytes() {
		return nil, domain.ErrImageTooLarge
	}
	contentType, ext, err := extraction.DetectImageType(data)
	if err != nil {
		return nil, err
	}

	tmp, err := os.CreateTemp(s.cfg.TempDir, "bill-*."+string(ext))
	if err != nil {
		return nil, fmt.Errorf("extractionService.ExtractUpload: creating temp file: %w", err)
	}
	path := tmp.Name()
	defer func() {
		if rmErr := os.Remove(path); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) {
			s.log.Warn("removing temp image failed", zap.String("path", path), zap.Error(rmErr))
		}
	}()

	_, writeErr := tmp.Write(data)
	closeErr := tmp.Close()
	if writeErr != nil {
		return nil, fmt.Errorf("extractionService.ExtractUpload: writing temp file: %w", writeErr)
	}
	if closeErr != nil {
		return nil, fmt.Errorf("extractionService.ExtractUpload: closing temp file: %w", closeErr)
	}

	result := &ExtractResult{}
	if s.archive != nil {
		result.ImageKey, result.ImageURL = s.archiveScan(ctx, data, contentType, ext)
	}

	bill, err := s.Extract(ctx, path)
	if err != nil {
		return nil, err
	}
	result.BillData = bill
	return result, nil
}

// archiveScan uploads the original image. Failures are logged and yield
// empty key and URL.
func (s *extractionService) archiveScan(ctx context.Context, data []byte, contentType string, ext domain.ImageType) (string, string) {
	key := fmt.Sprintf("bills/scans/%s.%s", uuid.New().String(), ext)
	if err := s.archive.Put(ctx, port.ScanObject{Key: key, Data: data, ContentType: contentType}); err != nil {
		s.log.Warn("archiving bill image failed", zap.String("key", key), zap.Error(err))
		return "", ""
	}
	url, err := s.archive.PresignedURL(ctx, key, scanURLValidity)
	if err != nil {
		s.log.Warn("presigning bill image failed", zap.String("key", key), zap.Error(err))
		return key, ""
	}
	return key, url
}
