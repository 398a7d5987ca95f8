// Package entity はinventoryフィーチャーのドメインモデルを定義します。
package entity

// RawDetection は検出モデルが1枚の画像に対して出力した1件の観測結果を表します。
type RawDetection struct {
	Label      string  // モデルが返すクラスラベル（正規化前）
	Confidence float64 // 信頼度スコア（0.0 ~ 1.0）
}
