package entity

// AggregatedItem は1枚の画像内で同一ラベルの検出をまとめた集計結果です。
type AggregatedItem struct {
	Name              string  // 表示用のアイテム名（タイトルケース）
	Count             int     // 同一ラベルの検出数（1以上）
	AverageConfidence float64 // 信頼度の平均値（小数第2位まで）
}

// ImageReport は1つの画像ソースに対するインベントリレポートです。
// 生成後は変更されません。
type ImageReport struct {
	SourceID        string           // 画像を識別するURL・パスなど
	EnvironmentType string           // バッチ単位で呼び出し側が指定する環境タイプ（home, shopなど）
	Items           []AggregatedItem // 初出順・アイテム名で一意
	Summary         string           // AI生成のサマリー（省略可）
}

// ReportCollection は1回のスキャンで生成されたレポートの集合です。
// ソースの処理順を保持し、失敗したソースのエントリは含まれません。
type ReportCollection []*ImageReport
