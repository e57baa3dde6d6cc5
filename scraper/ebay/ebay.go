package ebay

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"bakuscan/models"
	"bakuscan/scraper/fetch"
	"bakuscan/utils"
)

const (
	searchEndpoint = "https://www.ebay.com/sch/i.html"
	queryPrefix    = "Bakugan"

	titleMaxLen = 80
	minPrice    = 1.0
	maxPrice    = 500.0
)

// listingSelectors are tried in order; eBay's result markup shifts between
// class-name generations, so no single selector is reliable.
var listingSelectors = []string{
	"ul.srp-results li.s-item",
	"li.s-item",
	"div.s-item",
	"ul.srp-results > li",
}

// boilerplateTitles mark pseudo-listings eBay injects into result pages.
var boilerplateTitles = []string{
	"shop on ebay",
	"sellers with",
	"returns ",
}

var priceRegexp = regexp.MustCompile(`[\d,]+(?:\.\d+)?`)

// ErrNoListings indicates the page parsed but no listing passed the filters.
var ErrNoListings = errors.New("ebay: no matching listings found")

// Scraper extracts sold-listing prices from eBay search result pages.
type Scraper struct {
	fetcher fetch.Fetcher
	logger  *utils.Logger
}

// New creates a ready-to-use eBay Scraper.
func New(fetcher fetch.Fetcher, logger *utils.Logger) *Scraper {
	return &Scraper{fetcher: fetcher, logger: logger}
}

// SoldListings fetches the sold/completed search results for a Bakugan and
// returns up to limit accepted listings in document order. At most limit*2
// candidates are examined. An error means the caller should fall back to an
// estimate; it never indicates a partial result.
func (s *Scraper) SoldListings(ctx context.Context, name, attribute string, limit int) ([]models.PriceListing, error) {
	pageURL := searchURL(name, attribute)
	s.logger.Debug("[ebay] Fetching sold listings: %s", pageURL)

	html, err := s.fetcher.Fetch(ctx, pageURL)
	if err != nil {
		return nil, fmt.Errorf("ebay: fetch sold listings: %w", err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("ebay: parse results page: %w", err)
	}

	var nodes *goquery.Selection
	for _, sel := range listingSelectors {
		nodes = doc.Find(sel)
		if nodes.Length() > 0 {
			break
		}
	}
	if nodes == nil || nodes.Length() == 0 {
		return nil, errors.New("ebay: no listing nodes in results page")
	}

	lowerName := strings.ToLower(name)
	var listings []models.PriceListing
	examined := 0

	nodes.EachWithBreak(func(_ int, item *goquery.Selection) bool {
		if examined >= limit*2 || len(listings) >= limit {
			return false
		}
		examined++

		title := strings.TrimSpace(item.Find(".s-item__title").First().Text())
		priceText := strings.TrimSpace(item.Find(".s-item__price").First().Text())
		if title == "" || priceText == "" {
			return true
		}
		if isBoilerplate(title) {
			return true
		}
		if !strings.Contains(strings.ToLower(title), lowerName) {
			return true
		}

		price, ok := parsePrice(priceText)
		if !ok || price < minPrice || price > maxPrice {
			return true
		}

		listings = append(listings, models.PriceListing{
			Title:    truncate(title, titleMaxLen),
			Price:    price,
			URL:      item.Find(".s-item__link").First().AttrOr("href", ""),
			SoldDate: strings.TrimSpace(item.Find(".s-item__title--tag").First().Text()),
		})
		return len(listings) < limit
	})

	s.logger.Debug("[ebay] %q — examined %d candidates, accepted %d", name, examined, len(listings))

	if len(listings) == 0 {
		return nil, ErrNoListings
	}
	return listings, nil
}

// searchURL builds the sold/completed search URL, sorted by recency.
func searchURL(name, attribute string) string {
	query := queryPrefix + " " + name
	if attribute != "" {
		query += " " + attribute
	}

	params := url.Values{}
	params.Set("_nkw", query)
	params.Set("LH_Sold", "1")
	params.Set("LH_Complete", "1")
	params.Set("_sop", "13")
	return searchEndpoint + "?" + params.Encode()
}

func isBoilerplate(title string) bool {
	lower := strings.ToLower(title)
	for _, marker := range boilerplateTitles {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}

// parsePrice extracts the first numeric price-like token.
// "$12.99 to $24.99" yields 12.99.
func parsePrice(raw string) (float64, bool) {
	match := priceRegexp.FindString(raw)
	if match == "" {
		return 0, false
	}
	price, err := strconv.ParseFloat(strings.ReplaceAll(match, ",", ""), 64)
	if err != nil {
		return 0, false
	}
	return price, true
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
