// Package gemini はGoogle Gemini APIを使用したレポートサマリー生成を提供します。
package gemini

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"inventory_backend/internal/feature/inventory/domain/entity"
	"inventory_backend/internal/feature/inventory/usecase"
)

const (
	// DefaultModel はGemini APIのデフォルトモデルです。
	DefaultModel = "gemini-2.5-flash"
	// summaryPromptTemplate はインベントリサマリーのプロンプトテンプレートです。
	summaryPromptTemplate = "次の%s環境の検出アイテム一覧を、1文の英語で簡潔に要約して: %s"
)

// GeminiSummarizer はGoogle Gemini APIを使用してレポートのサマリーを生成します。
type GeminiSummarizer struct {
	client *genai.Client
	model  string
}

// GeminiSummarizerがReportSummarizerを実装していることをコンパイル時に検証します。
var _ usecase.ReportSummarizer = (*GeminiSummarizer)(nil)

// NewGeminiSummarizer はADCを使用してGeminiSummarizerの新しいインスタンスを生成します。
// 環境変数 GOOGLE_GENAI_USE_VERTEXAI, GOOGLE_CLOUD_PROJECT, GOOGLE_CLOUD_LOCATION が必要です。
func NewGeminiSummarizer(ctx context.Context) (*GeminiSummarizer, error) {
	client, err := genai.NewClient(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	return &GeminiSummarizer{client: client, model: DefaultModel}, nil
}

// Summarize はレポートの検出アイテムから1文のサマリーを生成します。
func (g *GeminiSummarizer) Summarize(ctx context.Context, report *entity.ImageReport) (string, error) {
	if len(report.Items) == 0 {
		return "No items detected.", nil
	}

	parts := make([]string, 0, len(report.Items))
	for _, it := range report.Items {
		parts = append(parts, fmt.Sprintf("%s x%d", it.Name, it.Count))
	}
	prompt := fmt.Sprintf(summaryPromptTemplate, report.EnvironmentType, strings.Join(parts, ", "))

	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), nil)
	if err != nil {
		return "", fmt.Errorf("gemini API request failed: %w", err)
	}
	return resp.Text(), nil
}
