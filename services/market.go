package services

import (
	"context"
	"fmt"
	"net/url"

	"bakuscan/models"
	"bakuscan/utils"
)

const (
	// defaultListingLimit / defaultImageLimit are how many candidates one
	// aggregation run requests from the sources.
	defaultListingLimit = 10
	defaultImageLimit   = 6

	// listingCap / imageCap bound the aggregate response.
	listingCap = 5
	imageCap   = 6

	placeholderNameMaxLen = 20
)

// attributeColors drive the placeholder image background per attribute.
var attributeColors = map[string]string{
	"Pyrus":    "ef4444",
	"Aquos":    "3b82f6",
	"Subterra": "b45309",
	"Haos":     "facc15",
	"Darkus":   "7c3aed",
	"Ventus":   "22c55e",
}

const defaultColor = "6b7280"

// ListingSource provides sold-listing data for a named Bakugan.
type ListingSource interface {
	SoldListings(ctx context.Context, name, attribute string, limit int) ([]models.PriceListing, error)
}

// ImageSource provides reference images for a named Bakugan.
type ImageSource interface {
	Search(ctx context.Context, name, attribute string, limit int) ([]models.ImageItem, error)
}

// MarketService gathers secondary-market data for identified Bakugan.
// Every method returns a usable value: source failures degrade to rarity
// estimates or placeholder images, never to an error.
type MarketService struct {
	prices ListingSource
	images ImageSource
	logger *utils.Logger
}

// NewMarketService creates a MarketService over the given sources.
func NewMarketService(prices ListingSource, images ImageSource, logger *utils.Logger) *MarketService {
	return &MarketService{prices: prices, images: images, logger: logger}
}

// FetchPricing scrapes sold listings and summarises their prices. If the
// scrape fails or yields nothing, the summary is synthesised from the rarity
// table with Estimated set and zero listings counted.
func (m *MarketService) FetchPricing(ctx context.Context, name, attribute string, limit int, rarity string) models.PricingSummary {
	listings, err := m.prices.SoldListings(ctx, name, attribute, limit)
	if err != nil || len(listings) == 0 {
		if err != nil {
			m.logger.Warn("[market] Price scrape for %q failed: %v — using rarity estimate", name, err)
		}
		return m.estimatedPricing(rarity, err)
	}

	minP, maxP := listings[0].Price, listings[0].Price
	var total float64
	for _, l := range listings {
		total += l.Price
		if l.Price < minP {
			minP = l.Price
		}
		if l.Price > maxP {
			maxP = l.Price
		}
	}

	return models.PricingSummary{
		Success:      true,
		AveragePrice: round2(total / float64(len(listings))),
		MinPrice:     minP,
		MaxPrice:     maxP,
		NumListings:  len(listings),
		Listings:     listings,
	}
}

func (m *MarketService) estimatedPricing(rarity string, cause error) models.PricingSummary {
	est := EstimatePriceByRarity(rarity)
	summary := models.PricingSummary{
		Success:      true,
		Estimated:    true,
		AveragePrice: est.Avg,
		MinPrice:     est.Min,
		MaxPrice:     est.Max,
		NumListings:  0,
		Listings:     []models.PriceListing{},
	}
	if cause != nil {
		summary.Error = cause.Error()
	} else {
		summary.Error = "no matching listings found"
	}
	return summary
}

// FetchImages scrapes reference images. If the scrape fails or yields
// nothing, exactly one placeholder item is returned; Success reflects the
// final item list being non-empty, so it is always true here.
func (m *MarketService) FetchImages(ctx context.Context, name, attribute string, limit int) models.ImageResult {
	items, err := m.images.Search(ctx, name, attribute, limit)
	if err != nil || len(items) == 0 {
		if err != nil {
			m.logger.Warn("[market] Image scrape for %q failed: %v — using placeholder", name, err)
		}
		result := models.ImageResult{
			Success: true,
			Items:   []models.ImageItem{placeholderImage(name, attribute)},
		}
		if err != nil {
			result.Error = err.Error()
		}
		return result
	}

	return models.ImageResult{Success: true, Items: items}
}

// GetMarketData composes pricing and image results for one Bakugan. The two
// scrapes run strictly sequentially. Listings are capped to the first 5 and
// images to the first 6 for transport economy; everything else passes
// through unchanged.
func (m *MarketService) GetMarketData(ctx context.Context, name, attribute, rarity string) models.MarketData {
	pricing := m.FetchPricing(ctx, name, attribute, defaultListingLimit, rarity)
	images := m.FetchImages(ctx, name, attribute, defaultImageLimit)

	if len(pricing.Listings) > listingCap {
		pricing.Listings = pricing.Listings[:listingCap]
	}
	if len(images.Items) > imageCap {
		images.Items = images.Items[:imageCap]
	}

	return models.MarketData{
		BakuganName: name,
		Attribute:   attribute,
		Pricing:     pricing,
		Images:      images,
	}
}

// placeholderImage synthesises a stand-in image whose URL encodes the
// attribute colour and the (truncated) Bakugan name.
func placeholderImage(name, attribute string) models.ImageItem {
	color, ok := attributeColors[attribute]
	if !ok {
		color = defaultColor
	}

	label := name
	if len(label) > placeholderNameMaxLen {
		label = label[:placeholderNameMaxLen]
	}

	return models.ImageItem{
		URL:    fmt.Sprintf("https://placehold.co/400x400/%s/ffffff?text=%s", color, url.QueryEscape(label)),
		Title:  name,
		Source: "Placeholder",
	}
}

func round2(f float64) float64 {
	return float64(int(f*100+0.5)) / 100
}
