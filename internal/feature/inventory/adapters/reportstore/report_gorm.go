// Package reportstore はレポートのリレーショナルDBへの永続化を提供します。
package reportstore

import (
	"context"
	"time"

	"gorm.io/gorm"

	"inventory_backend/internal/feature/inventory/domain/entity"
)

type reportGorm struct {
	db *gorm.DB
}

// NewReportRepository はgormベースのレポートリポジトリを生成します。
func NewReportRepository(db *gorm.DB) *reportGorm {
	return &reportGorm{db: db}
}

// ReportModel はimage_reportsテーブルの1行です。
type ReportModel struct {
	ID              uint   `gorm:"primaryKey"`
	SourceID        string `gorm:"size:1024;not null"`
	EnvironmentType string `gorm:"size:64;not null;index"`
	Summary         string
	CreatedAt       time.Time

	Items []ReportItemModel `gorm:"foreignKey:ReportID;constraint:OnDelete:CASCADE"`
}

func (ReportModel) TableName() string {
	return "image_reports"
}

// ReportItemModel はレポート内の1つの集計アイテムです。
// Positionで初出順を保持します。
type ReportItemModel struct {
	ID                uint   `gorm:"primaryKey"`
	ReportID          uint   `gorm:"not null;index"`
	Position          int    `gorm:"not null"`
	Name              string `gorm:"size:128;not null"`
	Count             int    `gorm:"not null"`
	AverageConfidence float64 `gorm:"not null"`
}

func (ReportItemModel) TableName() string {
	return "image_report_items"
}

func toModel(r *entity.ImageReport) ReportModel {
	items := make([]ReportItemModel, 0, len(r.Items))
	for i, it := range r.Items {
		items = append(items, ReportItemModel{
			Position:          i,
			Name:              it.Name,
			Count:             it.Count,
			AverageConfidence: it.AverageConfidence,
		})
	}
	return ReportModel{
		SourceID:        r.SourceID,
		EnvironmentType: r.EnvironmentType,
		Summary:         r.Summary,
		Items:           items,
	}
}

func toEntity(m ReportModel) *entity.ImageReport {
	items := make([]entity.AggregatedItem, 0, len(m.Items))
	for _, it := range m.Items {
		items = append(items, entity.AggregatedItem{
			Name:              it.Name,
			Count:             it.Count,
			AverageConfidence: it.AverageConfidence,
		})
	}
	return &entity.ImageReport{
		SourceID:        m.SourceID,
		EnvironmentType: m.EnvironmentType,
		Summary:         m.Summary,
		Items:           items,
	}
}

// SaveCollection はレポートの集合を1トランザクションで保存します。
func (r *reportGorm) SaveCollection(ctx context.Context, reports entity.ReportCollection) error {
	if len(reports) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, rep := range reports {
			m := toModel(rep)
			if err := tx.Create(&m).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// ListByEnvironment は指定環境タイプのレポートを保存順に返します。
// アイテムはレポート内の初出順（Position昇順）で並びます。
func (r *reportGorm) ListByEnvironment(ctx context.Context, environmentType string) (entity.ReportCollection, error) {
	var models []ReportModel
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Where("environment_type = ?", environmentType).
		Order("id ASC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}

	out := make(entity.ReportCollection, 0, len(models))
	for _, m := range models {
		out = append(out, toEntity(m))
	}
	return out, nil
}
