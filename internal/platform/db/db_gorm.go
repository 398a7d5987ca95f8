// Package db opens the GORM database connection used by the service.
package db

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // postgres driver registered as "pgx"
	gpostgres "gorm.io/driver/postgres"
	gsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"

	authentity "inventory_backend/internal/feature/auth/domain/entity"
	"inventory_backend/internal/feature/inventory/adapters/reportstore"
)

// OpenDB opens the database selected by DB_DRIVER ("postgres" or the default
// sqlite file) and runs migrations when RUN_MIGRATIONS=true.
func OpenDB() *gorm.DB {
	var (
		db  *gorm.DB
		err error
	)

	switch os.Getenv("DB_DRIVER") {
	case "postgres":
		db, err = openPostgres()
	default:
		db, err = openSQLite()
	}
	if err != nil {
		log.Fatalf("DB connect failed: %v", err)
	}

	if os.Getenv("RUN_MIGRATIONS") == "true" {
		if err := db.AutoMigrate(
			&authentity.User{},
			&reportstore.ReportModel{},
			&reportstore.ReportItemModel{},
		); err != nil {
			log.Fatalf("failed to migrate: %v", err)
		}
	}

	return db
}

func openSQLite() (*gorm.DB, error) {
	path := os.Getenv("DB_PATH")
	if path == "" {
		path = "./inventory.db"
	}
	log.Println("USING_SQLITE:", path)
	return gorm.Open(gsqlite.Open(path), &gorm.Config{})
}

func openPostgres() (*gorm.DB, error) {
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		os.Getenv("DB_HOST"), os.Getenv("DB_PORT"),
		os.Getenv("DB_USER"), os.Getenv("DB_PASSWORD"), os.Getenv("DB_NAME"))

	// コンテナ起動直後はDBが未準備のことがあるためリトライする
	deadline := time.Now().Add(60 * time.Second)
	for {
		sqlDB, err := sql.Open("pgx", dsn)
		if err == nil {
			if pingErr := sqlDB.Ping(); pingErr == nil {
				return gorm.Open(gpostgres.New(gpostgres.Config{Conn: sqlDB}), &gorm.Config{})
			} else {
				err = pingErr
				_ = sqlDB.Close()
			}
		}
		if time.Now().After(deadline) {
			return nil, fmt.Errorf("postgres connect failed after 60s: %w", err)
		}
		log.Printf("DB connect failed, retrying...: %v", err)
		time.Sleep(3 * time.Second)
	}
}
