package services

import "strings"

// RarityEstimate is a fixed secondary-market price range for one rarity tier.
type RarityEstimate struct {
	Min float64
	Max float64
	Avg float64
}

// rarityEstimates maps each rarity tier to its price range. Values sit well
// inside the [1, 500] plausibility clamp applied to scraped prices.
var rarityEstimates = map[string]RarityEstimate{
	"Common":     {Min: 5, Max: 15, Avg: 10},
	"Uncommon":   {Min: 10, Max: 30, Avg: 18},
	"Rare":       {Min: 20, Max: 50, Avg: 30},
	"Super Rare": {Min: 40, Max: 120, Avg: 70},
	"Ultra Rare": {Min: 80, Max: 250, Avg: 150},
}

// EstimatePriceByRarity returns the fixed price range for a rarity label.
// Unknown or absent labels default to the Common tier.
func EstimatePriceByRarity(rarity string) RarityEstimate {
	rarity = strings.TrimSpace(rarity)
	if est, ok := rarityEstimates[rarity]; ok {
		return est
	}
	for label, est := range rarityEstimates {
		if strings.EqualFold(label, rarity) {
			return est
		}
	}
	return rarityEstimates["Common"]
}
