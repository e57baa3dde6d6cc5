package main

import (
	"os"
	"time"

	"bakuscan/catalog"
	"bakuscan/config"
	"bakuscan/scraper/ebay"
	"bakuscan/scraper/fetch"
	"bakuscan/scraper/imagesearch"
	"bakuscan/server"
	"bakuscan/services"
	"bakuscan/storage"
	"bakuscan/utils"
	"bakuscan/vision"
)

func main() {
	logger := utils.NewLogger()
	cfg := config.Load()

	logger.Info("=== BakuScan server starting ===")
	logger.Info("Config — port: %s | model: %s | browser fetch: %v | scrape timeout: %dms",
		cfg.Port, cfg.GroqModel, cfg.UseBrowser, cfg.ScrapeTimeoutMs)

	cat, err := catalog.Load(cfg.CatalogPath)
	if err != nil {
		logger.Error("Failed to load catalog: %v", err)
		os.Exit(1)
	}
	logger.Info("Catalog loaded — %d known Bakugan", cat.Len())

	if cfg.GroqAPIKey == "" {
		logger.Warn("GROQ_API_KEY is not set — identification will degrade to \"Error\" results")
	}

	timeout := time.Duration(cfg.ScrapeTimeoutMs) * time.Millisecond
	var fetcher fetch.Fetcher = fetch.NewHTTP(timeout)
	if cfg.UseBrowser {
		fetcher = fetch.NewBrowser(timeout, cfg.ChromeBin)
		logger.Info("Using headless-browser fetch backend")
	}

	prices := ebay.New(fetcher, logger)
	images := imagesearch.New(fetcher, logger)
	market := services.NewMarketService(prices, images, logger)

	identifier := vision.NewClient(cfg.GroqAPIKey, cfg.GroqModel, cat.Names(), logger)
	store := storage.NewMemoryScanStore(cfg.HistoryLimit)

	srv := server.New(cfg, logger, identifier, market, store)

	addr := ":" + cfg.Port
	logger.Info("Listening on %s", addr)
	if err := srv.Listen(addr); err != nil {
		logger.Error("Server stopped: %v", err)
		os.Exit(1)
	}
}
