package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"inventory_backend/internal/feature/inventory/adapters/imagesearch"
	"inventory_backend/internal/feature/inventory/adapters/reportjson"
	"inventory_backend/internal/feature/inventory/adapters/vision"
	"inventory_backend/internal/feature/inventory/usecase"
	"inventory_backend/internal/platform/metrics"
	"inventory_backend/internal/shared/ratelimiter"
)

const imagesPerEnvironment = 10

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("[INFO] .env not found. Using environment variables.")
	}

	// 検索APIの設定不備はソース処理前に打ち切る
	searchCfg := imagesearch.LoadConfig()
	if err := searchCfg.Validate(); err != nil {
		log.Fatal(err)
	}

	metrics.Register(nil)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	limiter := ratelimiter.NewRateLimiter(30, time.Minute)
	fetcher, err := imagesearch.NewClient(searchCfg, nil, limiter)
	if err != nil {
		log.Fatal("failed to create image search client:", err)
	}

	detector, err := vision.NewVisionObjectDetector(ctx)
	if err != nil {
		log.Fatal("failed to create vision client:", err)
	}
	defer func() {
		if err := detector.Close(); err != nil {
			log.Println("[ERROR] failed to close vision client:", err)
		}
	}()

	uc := usecase.NewInventoryUsecase(fetcher, detector, usecase.Options{
		Workers:       4,
		SourceTimeout: 30 * time.Second,
	})

	environments := strings.Split(envOr("SCAN_ENVIRONMENTS", "home,shop"), ",")
	for _, env := range environments {
		env = strings.TrimSpace(env)
		if env == "" {
			continue
		}

		sources, err := fetcher.SearchImageURLs(ctx, env, imagesPerEnvironment)
		if err != nil {
			log.Println("[ERROR] image search failed:", env, err)
			continue
		}

		reports, err := uc.Scan(ctx, env, sources)
		if err != nil {
			log.Fatal(err)
		}

		sink := reportjson.NewSink(fmt.Sprintf("reports_%s.json", env))
		if err := sink.SaveCollection(ctx, reports); err != nil {
			log.Fatal("failed to write reports:", err)
		}
		log.Printf("scan ok: environment=%s sources=%d reports=%d", env, len(sources), len(reports))
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
