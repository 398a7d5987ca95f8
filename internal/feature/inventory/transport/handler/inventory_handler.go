// Package handler はinventoryフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"inventory_backend/internal/api"
	"inventory_backend/internal/feature/inventory/domain"
	"inventory_backend/internal/feature/inventory/domain/entity"
)

// InventoryUsecase はスキャンと単一画像検出のユースケースインターフェースを定義します。
// Goの慣例に従い、インターフェースは利用者（handler）側で定義します。
type InventoryUsecase interface {
	DetectItems(ctx context.Context, imageData []byte) ([]entity.AggregatedItem, error)
	Scan(ctx context.Context, environmentType string, sources []string) (entity.ReportCollection, error)
}

// ReportRepository はレポートの保存と参照のインターフェースを定義します。
type ReportRepository interface {
	SaveCollection(ctx context.Context, reports entity.ReportCollection) error
	ListByEnvironment(ctx context.Context, environmentType string) (entity.ReportCollection, error)
}

// InventoryHandler はインベントリ関連のHTTPリクエストを処理します。
type InventoryHandler struct {
	uc      InventoryUsecase
	reports ReportRepository
}

// NewInventoryHandler はInventoryHandlerの新しいインスタンスを生成します。
func NewInventoryHandler(uc InventoryUsecase, reports ReportRepository) *InventoryHandler {
	return &InventoryHandler{uc: uc, reports: reports}
}

// DetectItems は画像をアップロードして検出アイテムの集計を返します。
//
// エンドポイント: POST /v1/inventory/detect
// Content-Type: multipart/form-data
// フィールド: image（画像ファイル、最大10MB）
func (h *InventoryHandler) DetectItems(c *gin.Context) {
	file, err := c.FormFile("image")
	if err != nil {
		slog.Warn("画像ファイルの取得に失敗", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "image file is required"})
		return
	}

	f, err := file.Open()
	if err != nil {
		slog.Error("画像ファイルのオープンに失敗", "error", err)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "failed to read image"})
		return
	}
	defer func() {
		if err := f.Close(); err != nil {
			slog.Warn("画像ファイルのクローズに失敗", "error", err)
		}
	}()

	imageData, err := io.ReadAll(f)
	if err != nil {
		slog.Error("画像データの読み取りに失敗", "error", err)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "failed to read image"})
		return
	}

	items, err := h.uc.DetectItems(c.Request.Context(), imageData)
	if err != nil {
		slog.Error("物体検出に失敗", "error", err)
		c.JSON(http.StatusBadGateway, api.ErrorResponse{Error: "object detection failed"})
		return
	}

	c.JSON(http.StatusOK, api.FromItems(items))
}

// Scan は画像ソースのバッチを処理してレポートを生成・保存します。
//
// エンドポイント: POST /v1/inventory/scan
// Content-Type: application/json
func (h *InventoryHandler) Scan(c *gin.Context) {
	var req api.ScanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "environment_type and sources are required"})
		return
	}

	reports, err := h.uc.Scan(c.Request.Context(), req.EnvironmentType, req.Sources)
	if err != nil {
		if errors.Is(err, domain.ErrConfiguration) {
			slog.Error("スキャンの設定が不正", "error", err)
			c.JSON(http.StatusServiceUnavailable, api.ErrorResponse{Error: "scan pipeline is not configured"})
			return
		}
		slog.Error("スキャンに失敗", "error", err, "environment_type", req.EnvironmentType)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "scan failed"})
		return
	}

	if err := h.reports.SaveCollection(c.Request.Context(), reports); err != nil {
		// 保存に失敗しても生成済みレポートは失わず、そのまま返す
		slog.Error("レポートの保存に失敗", "error", err, "environment_type", req.EnvironmentType)
	}

	c.JSON(http.StatusOK, api.FromCollection(reports))
}

// ListReports は指定環境タイプの保存済みレポートを返します。
//
// エンドポイント: GET /v1/inventory/reports?environment_type=home
func (h *InventoryHandler) ListReports(c *gin.Context) {
	environmentType := c.Query("environment_type")
	if environmentType == "" {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "environment_type is required"})
		return
	}

	reports, err := h.reports.ListByEnvironment(c.Request.Context(), environmentType)
	if err != nil {
		slog.Error("レポートの取得に失敗", "error", err, "environment_type", environmentType)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "failed to list reports"})
		return
	}

	c.JSON(http.StatusOK, api.FromCollection(reports))
}
