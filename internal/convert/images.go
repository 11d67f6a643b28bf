package convert

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"

	"github.com/gerunddev/mdcards/internal/logger"
)

// ImageNotFound replaces references to images missing from the resource directory
const ImageNotFound = "Image not found"

// DefaultImageCacheSize is the number of encoded images kept in memory
const DefaultImageCacheSize = 256

// ErrResourceDir is returned when the image resource directory is unusable
var ErrResourceDir = errors.New("resource directory is not a readable directory")

var (
	// ![[diagram.png]] or ![[diagram.png|300]]
	obsidianImagePattern = regexp.MustCompile(`!\[\[([^\]]*\.(?:png|jpg|jpeg|gif|bmp|svg|tiff))[^\]]*\]\]`)

	// ![](diagram.png)
	markdownImagePattern = regexp.MustCompile(`!\[\]\(([^)]*\.(?:png|jpg|jpeg|gif|bmp|svg|tiff))[^)]*\)`)
)

// ImageEmbedder inlines referenced images as base64 data URIs.
// The resource directory is fixed at construction and only read afterwards,
// so one embedder may serve several notes at once.
type ImageEmbedder struct {
	resourceDir string
	log         *logger.Logger
	cache       *lru.Cache[string, string]
}

// NewImageEmbedder creates an embedder resolving images against resourceDir
func NewImageEmbedder(resourceDir string, cacheSize int, log *logger.Logger) (*ImageEmbedder, error) {
	info, err := os.Stat(resourceDir)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrResourceDir, resourceDir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrResourceDir, resourceDir)
	}

	if cacheSize <= 0 {
		cacheSize = DefaultImageCacheSize
	}

	cache, err := lru.New[string, string](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create image cache: %w", err)
	}

	return &ImageEmbedder{
		resourceDir: resourceDir,
		log:         logger.OrDiscard(log),
		cache:       cache,
	}, nil
}

// Convert replaces every image reference in text.
// Missing files and references leaving the resource directory become
// ImageNotFound; files that exist but cannot be decoded are left as written.
func (e *ImageEmbedder) Convert(text string) string {
	text = e.replace(obsidianImagePattern, text)
	return e.replace(markdownImagePattern, text)
}

func (e *ImageEmbedder) replace(re *regexp.Regexp, text string) string {
	return re.ReplaceAllStringFunc(text, func(match string) string {
		submatches := re.FindStringSubmatch(match)
		if len(submatches) < 2 {
			return match
		}

		ref := filepath.FromSlash(submatches[1])
		if !filepath.IsLocal(ref) {
			e.log.ImageOutsideResources(submatches[1])
			return ImageNotFound
		}

		path := filepath.Join(e.resourceDir, ref)
		info, err := os.Stat(path)
		if err != nil || info.IsDir() {
			e.log.ImageMissing(path)
			return ImageNotFound
		}

		key := fmt.Sprintf("%s|%d|%d", path, info.ModTime().UnixNano(), info.Size())
		if tag, ok := e.cache.Get(key); ok {
			return tag
		}

		tag, err := encodeImage(path)
		if err != nil {
			e.log.ImageUndecodable(path, err)
			return match
		}

		e.cache.Add(key, tag)
		return tag
	})
}

// encodeImage loads an image and returns it as an inline <img> tag.
// Raster formats are re-encoded to PNG; SVG is vector data and is embedded as is.
func encodeImage(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}

	if strings.HasSuffix(path, ".svg") {
		return imgTag("image/svg+xml", data), nil
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("failed to decode image: %w", err)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", fmt.Errorf("failed to encode png: %w", err)
	}

	return imgTag("image/png", buf.Bytes()), nil
}

func imgTag(mediaType string, data []byte) string {
	return fmt.Sprintf("<img src='data:%s;base64,%s'>", mediaType, base64.RawStdEncoding.EncodeToString(data))
}
