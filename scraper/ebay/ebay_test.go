package ebay

import (
	"context"
	"errors"
	"strings"
	"testing"

	"bakuscan/utils"
)

type stubFetcher struct {
	html string
	err  error
}

func (s *stubFetcher) Fetch(_ context.Context, _ string) (string, error) {
	return s.html, s.err
}

func resultsPage(items ...string) string {
	var b strings.Builder
	b.WriteString(`<html><body><ul class="srp-results">`)
	for _, item := range items {
		b.WriteString(item)
	}
	b.WriteString(`</ul></body></html>`)
	return b.String()
}

func listingItem(title, price, href string) string {
	return `<li class="s-item">` +
		`<a class="s-item__link" href="` + href + `"><span class="s-item__title">` + title + `</span></a>` +
		`<span class="s-item__price">` + price + `</span>` +
		`<span class="s-item__title--tag">Sold Jan 5, 2024</span>` +
		`</li>`
}

func newTestScraper(f *stubFetcher) *Scraper {
	return New(f, utils.NewLogger())
}

func TestSoldListingsAcceptsMatching(t *testing.T) {
	page := resultsPage(
		listingItem("Bakugan Dragonoid Pyrus B1", "$24.99", "https://www.ebay.com/itm/1"),
		listingItem("Bakugan Dragonoid sealed", "$12.50", "https://www.ebay.com/itm/2"),
	)
	s := newTestScraper(&stubFetcher{html: page})

	listings, err := s.SoldListings(context.Background(), "Dragonoid", "Pyrus", 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(listings) != 2 {
		t.Fatalf("got %d listings, want 2", len(listings))
	}
	if listings[0].Price != 24.99 || listings[1].Price != 12.50 {
		t.Errorf("prices: got %.2f/%.2f, want 24.99/12.50", listings[0].Price, listings[1].Price)
	}
	if listings[0].URL != "https://www.ebay.com/itm/1" {
		t.Errorf("URL: got %q", listings[0].URL)
	}
	if listings[0].SoldDate == "" {
		t.Error("SoldDate should be extracted when present")
	}
}

func TestSoldListingsFiltersBoilerplateAndMismatches(t *testing.T) {
	page := resultsPage(
		listingItem("Shop on eBay", "$20.00", "https://www.ebay.com/itm/ad"),
		listingItem("Sellers with 100% positive feedback", "$15.00", "https://www.ebay.com/itm/ad2"),
		listingItem("Returns accepted on this item", "$15.00", "https://www.ebay.com/itm/ad3"),
		listingItem("Bakugan Hydranoid Darkus", "$18.00", "https://www.ebay.com/itm/other"),
		listingItem("bakugan DRAGONOID pyrus", "$22.00", "https://www.ebay.com/itm/match"),
	)
	s := newTestScraper(&stubFetcher{html: page})

	listings, err := s.SoldListings(context.Background(), "Dragonoid", "", 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(listings) != 1 {
		t.Fatalf("got %d listings, want 1 (case-insensitive title match only)", len(listings))
	}
	if !strings.Contains(strings.ToLower(listings[0].Title), "dragonoid") {
		t.Errorf("accepted title %q does not contain the target name", listings[0].Title)
	}
}

func TestSoldListingsClampsPriceRange(t *testing.T) {
	page := resultsPage(
		listingItem("Bakugan Dragonoid bulk lot", "$750.00", "https://www.ebay.com/itm/1"),
		listingItem("Bakugan Dragonoid damaged", "$0.50", "https://www.ebay.com/itm/2"),
		listingItem("Bakugan Dragonoid", "$500.00", "https://www.ebay.com/itm/3"),
		listingItem("Bakugan Dragonoid", "$1.00", "https://www.ebay.com/itm/4"),
	)
	s := newTestScraper(&stubFetcher{html: page})

	listings, err := s.SoldListings(context.Background(), "Dragonoid", "", 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(listings) != 2 {
		t.Fatalf("got %d listings, want 2 (boundary prices accepted, outliers dropped)", len(listings))
	}
	for _, l := range listings {
		if l.Price < 1 || l.Price > 500 {
			t.Errorf("price %.2f outside [1, 500]", l.Price)
		}
	}
}

func TestSoldListingsRespectsLimit(t *testing.T) {
	page := resultsPage(
		listingItem("Bakugan Dragonoid 1", "$10.00", "https://www.ebay.com/itm/1"),
		listingItem("Bakugan Dragonoid 2", "$11.00", "https://www.ebay.com/itm/2"),
		listingItem("Bakugan Dragonoid 3", "$12.00", "https://www.ebay.com/itm/3"),
	)
	s := newTestScraper(&stubFetcher{html: page})

	listings, err := s.SoldListings(context.Background(), "Dragonoid", "", 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(listings) != 2 {
		t.Errorf("got %d listings, want limit of 2", len(listings))
	}
}

func TestSoldListingsExaminesAtMostTwiceLimit(t *testing.T) {
	// The only match sits past limit*2 candidates, so it is never reached.
	page := resultsPage(
		listingItem("Unrelated toy", "$10.00", "https://www.ebay.com/itm/1"),
		listingItem("Another unrelated toy", "$11.00", "https://www.ebay.com/itm/2"),
		listingItem("Bakugan Dragonoid", "$12.00", "https://www.ebay.com/itm/3"),
	)
	s := newTestScraper(&stubFetcher{html: page})

	_, err := s.SoldListings(context.Background(), "Dragonoid", "", 1)
	if !errors.Is(err, ErrNoListings) {
		t.Errorf("got %v, want ErrNoListings", err)
	}
}

func TestSoldListingsZeroLimit(t *testing.T) {
	page := resultsPage(listingItem("Bakugan Dragonoid", "$12.00", "https://www.ebay.com/itm/1"))
	s := newTestScraper(&stubFetcher{html: page})

	_, err := s.SoldListings(context.Background(), "Dragonoid", "", 0)
	if err == nil {
		t.Error("limit 0 must yield an error so the caller falls back to an estimate")
	}
}

func TestSoldListingsTransportError(t *testing.T) {
	s := newTestScraper(&stubFetcher{err: errors.New("connection refused")})

	_, err := s.SoldListings(context.Background(), "Dragonoid", "", 10)
	if err == nil {
		t.Error("transport failure must surface as an error")
	}
}

func TestSoldListingsNoListingNodes(t *testing.T) {
	s := newTestScraper(&stubFetcher{html: "<html><body><p>No results</p></body></html>"})

	_, err := s.SoldListings(context.Background(), "Dragonoid", "", 10)
	if err == nil {
		t.Error("a page without listing nodes must surface as an error")
	}
}

func TestSoldListingsToleratesMissingChildren(t *testing.T) {
	page := resultsPage(
		`<li class="s-item"><span class="s-item__title">Bakugan Dragonoid no price</span></li>`,
		`<li class="s-item"><span class="s-item__price">$19.99</span></li>`,
		listingItem("Bakugan Dragonoid complete", "$21.00", "https://www.ebay.com/itm/ok"),
	)
	s := newTestScraper(&stubFetcher{html: page})

	listings, err := s.SoldListings(context.Background(), "Dragonoid", "", 10)
	if err != nil {
		t.Fatalf("malformed candidates should be skipped, not fatal: %v", err)
	}
	if len(listings) != 1 {
		t.Errorf("got %d listings, want 1", len(listings))
	}
}

func TestSoldListingsTruncatesLongTitles(t *testing.T) {
	long := "Bakugan Dragonoid " + strings.Repeat("ultra rare vintage 2007 original ", 5)
	page := resultsPage(listingItem(long, "$30.00", "https://www.ebay.com/itm/1"))
	s := newTestScraper(&stubFetcher{html: page})

	listings, err := s.SoldListings(context.Background(), "Dragonoid", "", 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(listings[0].Title) > 80 {
		t.Errorf("title length %d exceeds 80", len(listings[0].Title))
	}
}

func TestParsePrice(t *testing.T) {
	tests := []struct {
		raw    string
		want   float64
		wantOK bool
	}{
		{"$24.99", 24.99, true},
		{"$1,250.00", 1250, true},
		{"$12.99 to $24.99", 12.99, true},
		{"GBP 19.95", 19.95, true},
		{"Free", 0, false},
		{"", 0, false},
	}

	for _, tt := range tests {
		got, ok := parsePrice(tt.raw)
		if ok != tt.wantOK || got != tt.want {
			t.Errorf("parsePrice(%q) = %.2f,%v; want %.2f,%v", tt.raw, got, ok, tt.want, tt.wantOK)
		}
	}
}
