// Package reportjson はレポートの集合をJSONファイルとして永続化します。
package reportjson

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"inventory_backend/internal/api"
	"inventory_backend/internal/feature/inventory/domain/entity"
)

// Sink は1回のスキャン結果を1つのJSON配列ファイルに書き出します。
type Sink struct {
	path string
}

// NewSink は指定されたパスに書き込むSinkの新しいインスタンスを生成します。
func NewSink(path string) *Sink {
	return &Sink{path: path}
}

// SaveCollection はレポートの集合をソース順のままJSON配列として書き込みます。
// 途中で失敗しても既存ファイルを壊さないよう、一時ファイルに書いてからリネームします。
func (s *Sink) SaveCollection(_ context.Context, reports entity.ReportCollection) error {
	data, err := json.MarshalIndent(api.FromCollection(reports), "", "  ")
	if err != nil {
		return fmt.Errorf("marshal reports: %w", err)
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".reports-*.json")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write reports: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}
