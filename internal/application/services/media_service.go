package services

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/AtRiskMedia/admini-go/internal/domain/entities/content"
	"github.com/AtRiskMedia/admini-go/internal/infrastructure/media"
	"github.com/AtRiskMedia/admini-go/internal/infrastructure/observability/logging"
)

// MediaService stores uploaded settings media and records the result in
// the document.
type MediaService struct {
	documents *DocumentService
	processor *media.ImageProcessor
	iconWidth int
	logger    *logging.ChanneledLogger
}

// NewMediaService creates a new media service
func NewMediaService(documents *DocumentService, processor *media.ImageProcessor, iconWidth int, logger *logging.ChanneledLogger) *MediaService {
	return &MediaService{
		documents: documents,
		processor: processor,
		iconWidth: iconWidth,
		logger:    logger,
	}
}

// SaveSettings persists settings. An AppIcon given as a data URL is stored
// under the media directory first and replaced by its public path.
func (s *MediaService) SaveSettings(ctx context.Context, settings content.Settings) error {
	if strings.HasPrefix(settings.AppIcon, "data:") {
		previous := s.documents.Document().Settings.AppIcon
		path, err := s.processor.ProcessAppIcon(settings.AppIcon, s.iconWidth, previous)
		if err != nil {
			return fmt.Errorf("failed to store app icon: %w", err)
		}
		settings.AppIcon = path
	}
	return s.documents.Execute(ctx, SaveSettingsCommand{Settings: settings})
}

// DataURL encodes an uploaded file for SaveSettings.
func DataURL(contentType string, raw []byte) string {
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	return "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(raw)
}
