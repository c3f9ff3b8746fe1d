// Package media provides image processing utilities
package media

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"

	"github.com/AtRiskMedia/admini-go/internal/infrastructure/observability/logging"
)

// URLPrefix is the public mount point of the media directory.
const URLPrefix = "/media/"

var (
	ErrEmptyImage       = errors.New("empty base64 data")
	ErrUnsupportedImage = errors.New("unsupported image format")

	dataURLPattern = regexp.MustCompile(`^data:(image/[\w.+-]+);base64,`)
)

// ImageProcessor writes uploaded images below basePath.
type ImageProcessor struct {
	basePath string
	logger   *logging.ChanneledLogger
}

// NewImageProcessor creates a new ImageProcessor instance
func NewImageProcessor(basePath string, logger *logging.ChanneledLogger) *ImageProcessor {
	return &ImageProcessor{basePath: basePath, logger: logger}
}

// BasePath is the media directory on disk.
func (p *ImageProcessor) BasePath() string {
	return p.basePath
}

// ProcessAppIcon stores a data URL image as the app icon. Raster images are
// scaled down to maxWidth and saved as WebP; SVG is written unchanged. The
// previous icon (a /media/ path) is removed. Returns the public URL path.
func (p *ImageProcessor) ProcessAppIcon(data string, maxWidth int, previous string) (string, error) {
	start := time.Now()

	mime, decoded, err := decodeDataURL(data)
	if err != nil {
		return "", err
	}

	targetDir := filepath.Join(p.basePath, "icons")
	if err := os.MkdirAll(targetDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}

	version := time.Now().UnixMilli()
	var filename string
	if mime == "image/svg+xml" {
		filename = fmt.Sprintf("icon-%d.svg", version)
		if err := os.WriteFile(filepath.Join(targetDir, filename), decoded, 0644); err != nil {
			return "", fmt.Errorf("failed to write SVG file: %w", err)
		}
	} else {
		filename = fmt.Sprintf("icon-%d.webp", version)
		if err := saveWebP(decoded, maxWidth, filepath.Join(targetDir, filename)); err != nil {
			return "", err
		}
	}

	if previous != "" {
		p.Delete(previous)
	}

	url := URLPrefix + "icons/" + filename
	p.logger.Content().Info("App icon stored", "path", url, "mime", mime, "duration", time.Since(start))
	return url, nil
}

// Delete removes a file referenced by its public /media/ path. Paths outside
// the media directory are ignored.
func (p *ImageProcessor) Delete(publicPath string) {
	if !strings.HasPrefix(publicPath, URLPrefix) {
		return
	}
	rel := filepath.Clean(filepath.FromSlash(strings.TrimPrefix(publicPath, URLPrefix)))
	if rel == "." || strings.HasPrefix(rel, "..") {
		return
	}
	fullPath := filepath.Join(p.basePath, rel)
	if err := os.Remove(fullPath); err != nil && !os.IsNotExist(err) {
		p.logger.Content().Warn("Failed to remove media file", "path", fullPath, "error", err)
	}
}

func decodeDataURL(data string) (string, []byte, error) {
	if data == "" {
		return "", nil, ErrEmptyImage
	}
	match := dataURLPattern.FindStringSubmatch(data)
	if match == nil {
		return "", nil, ErrUnsupportedImage
	}
	decoded, err := base64.StdEncoding.DecodeString(data[len(match[0]):])
	if err != nil {
		return "", nil, fmt.Errorf("failed to decode base64: %w", err)
	}
	return strings.ToLower(match[1]), decoded, nil
}

func saveWebP(raw []byte, maxWidth int, path string) error {
	img, err := imaging.Decode(bytes.NewReader(raw))
	if err != nil {
		if webpImg, webpErr := webp.Decode(bytes.NewReader(raw)); webpErr == nil {
			img = webpImg
		} else {
			return fmt.Errorf("failed to decode image: %w", err)
		}
	}

	if maxWidth > 0 && img.Bounds().Dx() > maxWidth {
		img = imaging.Resize(img, maxWidth, 0, imaging.Lanczos)
	}

	if err := webp.Save(path, img, &webp.Options{Quality: 85}); err != nil {
		os.Remove(path)
		return fmt.Errorf("failed to save WebP image: %w", err)
	}
	return nil
}
