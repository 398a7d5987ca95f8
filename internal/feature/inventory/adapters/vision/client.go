// Package vision はGoogle Cloud Vision APIを使用した物体検出クライアントを提供します。
package vision

import (
	"context"
	"fmt"

	gvision "cloud.google.com/go/vision/v2/apiv1"
	visionpb "cloud.google.com/go/vision/v2/apiv1/visionpb"

	"inventory_backend/internal/feature/inventory/domain"
	"inventory_backend/internal/feature/inventory/domain/entity"
	"inventory_backend/internal/feature/inventory/usecase"
)

// VisionObjectDetector はGoogle Cloud Vision APIのオブジェクトローカライゼーションで
// 画像内の物体を検出します。
type VisionObjectDetector struct {
	client *gvision.ImageAnnotatorClient
}

// VisionObjectDetectorがObjectDetectorを実装していることをコンパイル時に検証します。
var _ usecase.ObjectDetector = (*VisionObjectDetector)(nil)

// NewVisionObjectDetector はADCを使用してVisionObjectDetectorの新しいインスタンスを生成します。
func NewVisionObjectDetector(ctx context.Context) (*VisionObjectDetector, error) {
	client, err := gvision.NewImageAnnotatorClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create vision client: %v", domain.ErrConfiguration, err)
	}
	return &VisionObjectDetector{client: client}, nil
}

// Close はVision APIクライアントを解放します。
func (v *VisionObjectDetector) Close() error {
	return v.client.Close()
}

// Detect は画像バイト列から物体を検出し、minConfidence未満の検出を除外して返します。
func (v *VisionObjectDetector) Detect(ctx context.Context, image []byte, minConfidence float64) ([]entity.RawDetection, error) {
	req := &visionpb.BatchAnnotateImagesRequest{
		Requests: []*visionpb.AnnotateImageRequest{
			{
				Image: &visionpb.Image{Content: image},
				Features: []*visionpb.Feature{
					{Type: visionpb.Feature_OBJECT_LOCALIZATION},
				},
			},
		},
	}

	resp, err := v.client.BatchAnnotateImages(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("%w: vision API request failed: %v", domain.ErrDetection, err)
	}

	if len(resp.Responses) == 0 {
		return nil, nil
	}
	if resp.Responses[0].Error != nil {
		return nil, fmt.Errorf("%w: vision API error: %s", domain.ErrDetection, resp.Responses[0].Error.Message)
	}

	annotations := resp.Responses[0].LocalizedObjectAnnotations
	detections := make([]entity.RawDetection, 0, len(annotations))
	for _, obj := range annotations {
		if float64(obj.Score) < minConfidence {
			continue
		}
		detections = append(detections, entity.RawDetection{
			Label:      obj.Name,
			Confidence: float64(obj.Score),
		})
	}
	return detections, nil
}
