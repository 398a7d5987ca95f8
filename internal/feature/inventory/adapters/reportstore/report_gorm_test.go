package reportstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"inventory_backend/internal/feature/inventory/domain/entity"
)

// setupTestDB prepares an in-memory SQLite database for testing.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err, "failed to initialize test database")

	err = db.AutoMigrate(&ReportModel{}, &ReportItemModel{})
	require.NoError(t, err, "failed to migrate tables")

	return db
}

func TestReportGorm_SaveAndList(t *testing.T) {
	db := setupTestDB(t)
	repo := NewReportRepository(db)
	ctx := context.Background()

	home := entity.ReportCollection{
		{
			SourceID:        "https://images.test/1.jpg",
			EnvironmentType: "home",
			Summary:         "a living room",
			Items: []entity.AggregatedItem{
				{Name: "Sofa", Count: 1, AverageConfidence: 0.60},
				{Name: "Chair", Count: 2, AverageConfidence: 0.80},
				{Name: "Lamp", Count: 1, AverageConfidence: 0.55},
			},
		},
		{
			SourceID:        "https://images.test/2.jpg",
			EnvironmentType: "home",
			Items:           []entity.AggregatedItem{},
		},
	}
	shop := entity.ReportCollection{
		{
			SourceID:        "https://images.test/3.jpg",
			EnvironmentType: "shop",
			Items: []entity.AggregatedItem{
				{Name: "Bottle", Count: 5, AverageConfidence: 0.72},
			},
		},
	}

	require.NoError(t, repo.SaveCollection(ctx, home))
	require.NoError(t, repo.SaveCollection(ctx, shop))

	got, err := repo.ListByEnvironment(ctx, "home")
	require.NoError(t, err)
	require.Len(t, got, 2, "only reports for the requested environment")

	// 保存順とアイテムの初出順が保持される
	assert.Equal(t, "https://images.test/1.jpg", got[0].SourceID)
	assert.Equal(t, "a living room", got[0].Summary)
	assert.Equal(t, []entity.AggregatedItem{
		{Name: "Sofa", Count: 1, AverageConfidence: 0.60},
		{Name: "Chair", Count: 2, AverageConfidence: 0.80},
		{Name: "Lamp", Count: 1, AverageConfidence: 0.55},
	}, got[0].Items)

	assert.Equal(t, "https://images.test/2.jpg", got[1].SourceID)
	assert.Empty(t, got[1].Items)
}

func TestReportGorm_SaveCollection_Empty(t *testing.T) {
	db := setupTestDB(t)
	repo := NewReportRepository(db)

	err := repo.SaveCollection(context.Background(), entity.ReportCollection{})

	assert.NoError(t, err)
}

func TestReportGorm_ListByEnvironment_NoRows(t *testing.T) {
	db := setupTestDB(t)
	repo := NewReportRepository(db)

	got, err := repo.ListByEnvironment(context.Background(), "warehouse")

	require.NoError(t, err)
	assert.Empty(t, got)
}
