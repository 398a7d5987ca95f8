// Package usecase はinventoryフィーチャーのビジネスロジックを実装します。
package usecase

import (
	"fmt"
	"math"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"inventory_backend/internal/feature/inventory/domain"
	"inventory_backend/internal/feature/inventory/domain/entity"
)

// Aggregate は1枚の画像に対する検出結果をラベルごとに集計します。
// ラベルの同一性は大文字小文字を区別せず、出力は各ラベルの初出順に並びます。
// 平均信頼度は出力時にのみ小数第2位へ丸めます（四捨五入）。
// 空の入力は空のスライスを返します（エラーではありません）。
func Aggregate(detections []entity.RawDetection) ([]entity.AggregatedItem, error) {
	type running struct {
		sum   float64
		count int
	}

	// mapのイテレーション順は未定義なので、初出順はスライスで別管理する
	order := make([]string, 0, len(detections))
	totals := make(map[string]*running, len(detections))

	for _, d := range detections {
		if d.Confidence < 0 || d.Confidence > 1 {
			return nil, fmt.Errorf("%w: %q has confidence %v", domain.ErrInvalidDetection, d.Label, d.Confidence)
		}
		key := strings.ToLower(strings.TrimSpace(d.Label))
		r, ok := totals[key]
		if !ok {
			r = &running{}
			totals[key] = r
			order = append(order, key)
		}
		r.sum += d.Confidence
		r.count++
	}

	// cases.Caserは並行利用できないため呼び出しごとに生成する
	title := cases.Title(language.English)

	items := make([]entity.AggregatedItem, 0, len(order))
	for _, key := range order {
		r := totals[key]
		items = append(items, entity.AggregatedItem{
			Name:              title.String(key),
			Count:             r.count,
			AverageConfidence: roundConfidence(r.sum / float64(r.count)),
		})
	}
	return items, nil
}

// roundConfidence は信頼度を小数第2位に丸めます。
// math.Roundはゼロから遠い方向への丸めで、信頼度は非負なので四捨五入と一致します。
func roundConfidence(v float64) float64 {
	return math.Round(v*100) / 100
}
