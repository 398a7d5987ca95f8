package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"inventory_backend/internal/feature/inventory/domain"
	"inventory_backend/internal/feature/inventory/domain/entity"
	"inventory_backend/internal/platform/metrics"
)

const (
	// MaxImageSize は画像1枚あたりの最大サイズ（10MB）です。
	MaxImageSize = 10 * 1024 * 1024
	// DefaultMinConfidence はレポートに含める検出の最小信頼度です。
	DefaultMinConfidence = 0.5
)

// ImageFetcher は1つのソース識別子から画像バイト列を取得するインターフェースです。
// Goの慣例に従い、インターフェースは利用者（usecase）側で定義します。
type ImageFetcher interface {
	// Fetch はソース（URLなど）から画像データを取得します。
	Fetch(ctx context.Context, source string) ([]byte, error)
}

// ObjectDetector は画像から物体を検出するインターフェースです。
// 実装はminConfidence未満の検出を返却前に除外できます。
type ObjectDetector interface {
	Detect(ctx context.Context, image []byte, minConfidence float64) ([]entity.RawDetection, error)
}

// ReportSummarizer はレポートから自然言語のサマリーを生成するインターフェースです。
type ReportSummarizer interface {
	Summarize(ctx context.Context, report *entity.ImageReport) (string, error)
}

// Options はInventoryUsecaseの動作パラメータです。ゼロ値はデフォルトに置き換えられます。
type Options struct {
	MinConfidence float64          // 0以下の場合はDefaultMinConfidence
	Workers       int              // 1以下なら逐次処理
	SourceTimeout time.Duration    // 0なら無制限
	Summarizer    ReportSummarizer // nil可
}

// InventoryUsecase は画像バッチのスキャンと単一画像の検出を提供します。
type InventoryUsecase struct {
	fetcher  ImageFetcher
	detector ObjectDetector
	opts     Options
}

// NewInventoryUsecase はInventoryUsecaseの新しいインスタンスを生成します。
// fetcherはスキャンを使わない構成ではnilでも構いません。
func NewInventoryUsecase(fetcher ImageFetcher, detector ObjectDetector, opts Options) *InventoryUsecase {
	if opts.MinConfidence <= 0 {
		opts.MinConfidence = DefaultMinConfidence
	}
	return &InventoryUsecase{fetcher: fetcher, detector: detector, opts: opts}
}

// DetectItems はアップロードされた1枚の画像から検出アイテムを集計して返します。
func (u *InventoryUsecase) DetectItems(ctx context.Context, imageData []byte) ([]entity.AggregatedItem, error) {
	if u.detector == nil {
		return nil, fmt.Errorf("%w: object detector is not configured", domain.ErrConfiguration)
	}
	if len(imageData) == 0 {
		return nil, fmt.Errorf("image data is empty")
	}
	if len(imageData) > MaxImageSize {
		return nil, fmt.Errorf("image size exceeds maximum of %d bytes", MaxImageSize)
	}
	detections, err := u.detector.Detect(ctx, imageData, u.opts.MinConfidence)
	if err != nil {
		return nil, err
	}
	return Aggregate(detections)
}

// Scan は指定された環境タイプのソース一覧を順に処理し、レポートの集合を返します。
//
// ソースごとの失敗（取得・検出・不正な検出・不正なメタデータ）はログに記録して
// そのソースだけをスキップし、バッチ全体は中断しません。結果は元のソース順を
// 保持します。コラボレーターが未設定の場合はソースを1件も処理せずに
// ErrConfigurationを返します。
func (u *InventoryUsecase) Scan(ctx context.Context, environmentType string, sources []string) (entity.ReportCollection, error) {
	if u.fetcher == nil || u.detector == nil {
		return nil, fmt.Errorf("%w: scan collaborators are not configured", domain.ErrConfiguration)
	}
	if u.opts.MinConfidence < 0 || u.opts.MinConfidence > 1 {
		return nil, fmt.Errorf("%w: min confidence %v is out of range", domain.ErrConfiguration, u.opts.MinConfidence)
	}

	// 完了順ではなくソースの位置で結果を格納し、順序を保証する
	reports := make([]*entity.ImageReport, len(sources))

	if u.opts.Workers <= 1 {
		for i, src := range sources {
			reports[i] = u.processSource(ctx, environmentType, src)
		}
	} else {
		g := new(errgroup.Group)
		g.SetLimit(u.opts.Workers)
		for i, src := range sources {
			g.Go(func() error {
				reports[i] = u.processSource(ctx, environmentType, src)
				return nil
			})
		}
		// ワーカーはエラーを返さない（ソース単位の失敗はスキップ扱い）
		_ = g.Wait()
	}

	collection := make(entity.ReportCollection, 0, len(sources))
	for _, r := range reports {
		if r != nil {
			collection = append(collection, r)
		}
	}
	return collection, nil
}

// processSource は1つのソースを取得→検出→集計→レポート化します。
// 失敗した場合はnilを返し、そのソースは結果に含まれません。
func (u *InventoryUsecase) processSource(ctx context.Context, environmentType, source string) *entity.ImageReport {
	if u.opts.SourceTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, u.opts.SourceTimeout)
		defer cancel()
	}
	start := time.Now()

	image, err := u.fetcher.Fetch(ctx, source)
	if err != nil {
		slog.Error("画像の取得に失敗", "source", source, "error", err)
		metrics.SourcesProcessedTotal.WithLabelValues("acquisition_error").Inc()
		return nil
	}

	detections, err := u.detector.Detect(ctx, image, u.opts.MinConfidence)
	if err != nil {
		slog.Error("物体検出に失敗", "source", source, "error", err)
		metrics.SourcesProcessedTotal.WithLabelValues("detection_error").Inc()
		return nil
	}

	// 検出ゼロは正常（空のアイテムリストのレポートになる）
	items, err := Aggregate(detections)
	if err != nil {
		slog.Error("検出結果の集計に失敗", "source", source, "error", err)
		metrics.SourcesProcessedTotal.WithLabelValues("invalid_detection").Inc()
		return nil
	}

	report, err := BuildReport(source, environmentType, items)
	if err != nil {
		slog.Error("レポートの生成に失敗", "source", source, "error", err)
		metrics.SourcesProcessedTotal.WithLabelValues("invalid_metadata").Inc()
		return nil
	}

	if u.opts.Summarizer != nil {
		// サマリー生成の失敗はレポートを無効にしない
		if summary, err := u.opts.Summarizer.Summarize(ctx, report); err != nil {
			slog.Warn("サマリーの生成に失敗", "source", source, "error", err)
		} else {
			report.Summary = summary
		}
	}

	metrics.SourcesProcessedTotal.WithLabelValues("ok").Inc()
	metrics.DetectionsTotal.Add(float64(len(detections)))
	metrics.SourceDurationSeconds.Observe(time.Since(start).Seconds())
	return report
}
