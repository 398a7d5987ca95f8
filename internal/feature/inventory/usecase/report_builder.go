package usecase

import (
	"fmt"
	"strings"

	"inventory_backend/internal/feature/inventory/domain"
	"inventory_backend/internal/feature/inventory/domain/entity"
)

// BuildReport は集計済みアイテムにメタデータを付与してレポートを組み立てます。
// itemsは変換せずそのまま保持します。
func BuildReport(sourceID, environmentType string, items []entity.AggregatedItem) (*entity.ImageReport, error) {
	if strings.TrimSpace(sourceID) == "" {
		return nil, fmt.Errorf("%w: source identifier is empty", domain.ErrInvalidMetadata)
	}
	if strings.TrimSpace(environmentType) == "" {
		return nil, fmt.Errorf("%w: environment type is empty", domain.ErrInvalidMetadata)
	}
	return &entity.ImageReport{
		SourceID:        sourceID,
		EnvironmentType: environmentType,
		Items:           items,
	}, nil
}
