package main

import (
	"context"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	redisv9 "github.com/redis/go-redis/v9"

	"inventory_backend/internal/app/router"
	authadapters "inventory_backend/internal/feature/auth/adapters"
	authhandler "inventory_backend/internal/feature/auth/transport/handler"
	authusecase "inventory_backend/internal/feature/auth/usecase"
	"inventory_backend/internal/feature/inventory/adapters/gemini"
	"inventory_backend/internal/feature/inventory/adapters/imagesearch"
	"inventory_backend/internal/feature/inventory/adapters/reportstore"
	"inventory_backend/internal/feature/inventory/adapters/vision"
	inventoryhandler "inventory_backend/internal/feature/inventory/transport/handler"
	inventoryusecase "inventory_backend/internal/feature/inventory/usecase"
	"inventory_backend/internal/platform/cache"
	"inventory_backend/internal/platform/db"
	jwtmw "inventory_backend/internal/platform/jwt"
	"inventory_backend/internal/platform/metrics"
	platformredis "inventory_backend/internal/platform/redis"
)

func main() {
	// .envはローカル開発用。本番は実環境変数を使う。
	if err := godotenv.Load(); err != nil {
		log.Println("[INFO] .env not found. Using environment variables.")
	}

	ctx := context.Background()

	// db
	gormDB := db.OpenDB()

	// Prometheusメトリクス
	metrics.Register(nil)

	// Redis
	var rdb *redisv9.Client
	if tmp, err := platformredis.NewRedisClient(); err != nil {
		log.Println("[WARN] Redis unavailable. Running without cache.")
		rdb = nil
	} else {
		rdb = tmp
		defer func() {
			if err := rdb.Close(); err != nil {
				log.Println("[ERROR] Failed to close Redis client:", err)
			}
		}()
	}

	// 物体検出（Vision API）
	detector, err := vision.NewVisionObjectDetector(ctx)
	if err != nil {
		log.Fatal("Failed to create Vision client:", err)
	}
	defer func() {
		if err := detector.Close(); err != nil {
			log.Println("[ERROR] Failed to close Vision client:", err)
		}
	}()

	// 検出結果をRedisキャッシュでラップ
	cachedDetector := cache.NewCachingObjectDetector(rdb, 24*time.Hour, detector, "detections")

	// 画像検索API（未設定ならスキャンは構成エラーを返す）
	var fetcher inventoryusecase.ImageFetcher
	searchCfg := imagesearch.LoadConfig()
	if err := searchCfg.Validate(); err != nil {
		log.Println("[WARN] Image search API is not configured. Scan is disabled:", err)
	} else {
		client, err := imagesearch.NewClient(searchCfg, nil, nil)
		if err != nil {
			log.Fatal("Failed to create image search client:", err)
		}
		fetcher = client
	}

	// サマリー生成（Gemini、任意）
	var summarizer inventoryusecase.ReportSummarizer
	if s, err := gemini.NewGeminiSummarizer(ctx); err != nil {
		log.Println("[WARN] Gemini unavailable. Reports will have no summary:", err)
	} else {
		summarizer = s
	}

	// Usecase
	inventoryUC := inventoryusecase.NewInventoryUsecase(fetcher, cachedDetector, inventoryusecase.Options{
		MinConfidence: envFloat("MIN_CONFIDENCE", 0),
		Workers:       envInt("SCAN_WORKERS", 4),
		SourceTimeout: 30 * time.Second,
		Summarizer:    summarizer,
	})

	userRepo := authadapters.NewUserRepository(gormDB)
	tokenGen := jwtmw.NewGenerator(os.Getenv(jwtmw.EnvKeyJWTSecret), 24*time.Hour)
	authUC := authusecase.NewAuthUsecase(userRepo, tokenGen)

	reportRepo := reportstore.NewReportRepository(gormDB)

	// Handler
	authH := authhandler.NewAuthHandler(authUC)
	inventoryH := inventoryhandler.NewInventoryHandler(inventoryUC, reportRepo)

	// ルータ生成
	r := router.NewRouter(authH, inventoryH)

	// JWT_SECRETチェック（開発中の注意喚起）
	if os.Getenv(jwtmw.EnvKeyJWTSecret) == "" {
		log.Println("[WARN] JWT_SECRET is not set. Set a strong secret in production.")
	}

	if err := r.Run(":8080"); err != nil {
		log.Fatal(err)
	}
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}
