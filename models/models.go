package models

import "time"

// CatalogEntry is one Bakugan from the static reference list loaded at
// startup. The catalog is immutable for the lifetime of the process.
type CatalogEntry struct {
	Name      string `json:"name"`
	Series    string `json:"series,omitempty"`
	Attribute string `json:"attribute,omitempty"`
	Rarity    string `json:"rarity,omitempty"`
}

// IdentificationResult is the parsed reply of the vision model for one photo.
// Confidence below the usable threshold maps Name to "Unknown"; call-level
// failures map it to "Error".
type IdentificationResult struct {
	Name        string  `json:"name"`
	Series      string  `json:"series,omitempty"`
	Attribute   string  `json:"attribute,omitempty"`
	GPower      int     `json:"g_power,omitempty"`
	Rarity      string  `json:"rarity,omitempty"`
	Confidence  float64 `json:"confidence"`
	Description string  `json:"description,omitempty"`
}

// ScanRecord is an identification result stored in the per-session history.
type ScanRecord struct {
	ID        string `json:"id"`
	SessionID string `json:"-"`
	IdentificationResult
	CreatedAt time.Time `json:"created_at"`
}

// PriceListing is one accepted sold listing from a marketplace scrape.
type PriceListing struct {
	Title    string  `json:"title"`
	Price    float64 `json:"price"`
	URL      string  `json:"url,omitempty"`
	SoldDate string  `json:"sold_date,omitempty"`
}

// PricingSummary aggregates the accepted listings of one pricing call.
// Success implies at least one listing unless Estimated is set, in which
// case the values come from the rarity table and NumListings is zero.
type PricingSummary struct {
	Success      bool           `json:"success"`
	Estimated    bool           `json:"estimated"`
	AveragePrice float64        `json:"average_price"`
	MinPrice     float64        `json:"min_price"`
	MaxPrice     float64        `json:"max_price"`
	NumListings  int            `json:"num_listings"`
	Listings     []PriceListing `json:"listings"`
	Error        string         `json:"error,omitempty"`
}

// ImageItem is one reference image candidate.
type ImageItem struct {
	URL    string `json:"url"`
	Title  string `json:"title"`
	Source string `json:"source"`
}

// ImageResult holds the outcome of one image search.
type ImageResult struct {
	Success bool        `json:"success"`
	Items   []ImageItem `json:"items"`
	Error   string      `json:"error,omitempty"`
}

// MarketData is the combined pricing and image response for one Bakugan.
type MarketData struct {
	BakuganName string         `json:"bakugan_name"`
	Attribute   string         `json:"attribute,omitempty"`
	Pricing     PricingSummary `json:"pricing"`
	Images      ImageResult    `json:"images"`
}
