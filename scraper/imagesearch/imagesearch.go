package imagesearch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"bakuscan/models"
	"bakuscan/scraper/fetch"
	"bakuscan/utils"
)

const (
	searchEndpoint = "https://www.bing.com/images/search"
	queryPrefix    = "Bakugan"
	querySuffix    = "toy figure"
	sourceName     = "Bing Images"

	captionMaxLen = 60
)

// blockedSubstrings disqualify a resolved image URL.
var blockedSubstrings = []string{"gif", "svg", "logo"}

// ErrNoImages indicates the page parsed but no usable image was found.
var ErrNoImages = errors.New("imagesearch: no usable images found")

// imageMeta is the JSON metadata Bing embeds on result anchors.
type imageMeta struct {
	MediaURL string `json:"murl"`
	Title    string `json:"t"`
}

// Scraper extracts reference images from Bing image-search result pages.
type Scraper struct {
	fetcher fetch.Fetcher
	logger  *utils.Logger
}

// New creates a ready-to-use image Scraper.
func New(fetcher fetch.Fetcher, logger *utils.Logger) *Scraper {
	return &Scraper{fetcher: fetcher, logger: logger}
}

// Search fetches image results for a Bakugan and returns up to limit items
// in document order. The primary path reads the JSON metadata attribute on
// result anchors; if the page carries none, embedded thumbnail tags are used
// instead. An error means the caller should fall back to a placeholder.
func (s *Scraper) Search(ctx context.Context, name, attribute string, limit int) ([]models.ImageItem, error) {
	pageURL := searchURL(name, attribute)
	s.logger.Debug("[imagesearch] Fetching images: %s", pageURL)

	html, err := s.fetcher.Fetch(ctx, pageURL)
	if err != nil {
		return nil, fmt.Errorf("imagesearch: fetch results: %w", err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("imagesearch: parse results page: %w", err)
	}

	items := s.fromMetadataAnchors(doc, limit)
	if len(items) == 0 {
		items = s.fromEmbeddedThumbnails(doc, name, limit)
	}

	s.logger.Debug("[imagesearch] %q — collected %d images", name, len(items))

	if len(items) == 0 {
		return nil, ErrNoImages
	}
	return items, nil
}

// fromMetadataAnchors reads the JSON metadata attribute Bing places on each
// result anchor, which carries the full-size media URL and a caption.
func (s *Scraper) fromMetadataAnchors(doc *goquery.Document, limit int) []models.ImageItem {
	var items []models.ImageItem
	seen := make(map[string]struct{})

	doc.Find("a.iusc").EachWithBreak(func(_ int, a *goquery.Selection) bool {
		if len(items) >= limit {
			return false
		}

		raw, ok := a.Attr("m")
		if !ok || raw == "" {
			return true
		}

		var meta imageMeta
		if err := json.Unmarshal([]byte(raw), &meta); err != nil {
			return true
		}
		if meta.MediaURL == "" || isBlocked(meta.MediaURL) {
			return true
		}
		if _, dup := seen[meta.MediaURL]; dup {
			return true
		}
		seen[meta.MediaURL] = struct{}{}

		items = append(items, models.ImageItem{
			URL:    meta.MediaURL,
			Title:  truncate(strings.TrimSpace(meta.Title), captionMaxLen),
			Source: sourceName,
		})
		return len(items) < limit
	})

	return items
}

// fromEmbeddedThumbnails is the fallback when no metadata anchors exist:
// read image tags directly, accepting only absolute HTTP URLs.
func (s *Scraper) fromEmbeddedThumbnails(doc *goquery.Document, name string, limit int) []models.ImageItem {
	var items []models.ImageItem
	seen := make(map[string]struct{})

	doc.Find("img.mimg, div.imgpt img").EachWithBreak(func(_ int, img *goquery.Selection) bool {
		if len(items) >= limit {
			return false
		}

		src := img.AttrOr("src", "")
		if src == "" {
			src = img.AttrOr("data-src", "")
		}
		if src == "" || !strings.HasPrefix(src, "http") {
			return true
		}
		if isBlocked(src) {
			return true
		}
		if _, dup := seen[src]; dup {
			return true
		}
		seen[src] = struct{}{}

		title := strings.TrimSpace(img.AttrOr("alt", ""))
		if title == "" {
			title = name
		}

		items = append(items, models.ImageItem{
			URL:    src,
			Title:  truncate(title, captionMaxLen),
			Source: sourceName,
		})
		return len(items) < limit
	})

	return items
}

// searchURL builds the photo-filtered image search URL.
func searchURL(name, attribute string) string {
	query := queryPrefix + " " + name
	if attribute != "" {
		query += " " + attribute
	}
	query += " " + querySuffix

	params := url.Values{}
	params.Set("q", query)
	params.Set("qft", "+filterui:photo-photo")
	return searchEndpoint + "?" + params.Encode()
}

func isBlocked(imageURL string) bool {
	lower := strings.ToLower(imageURL)
	for _, marker := range blockedSubstrings {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
