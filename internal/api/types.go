// Package api defines the JSON request/response shapes shared by the HTTP
// handlers and the report sinks.
package api

import "inventory_backend/internal/feature/inventory/domain/entity"

// ErrorResponse is the uniform error body returned by all handlers.
type ErrorResponse struct {
	Error string `json:"error"`
}

// DetectedItemResponse is one aggregated inventory item.
type DetectedItemResponse struct {
	Item            string  `json:"item"`
	Count           int     `json:"count"`
	ConfidenceScore float64 `json:"confidence_score"`
}

// ImageReportResponse is the persisted/returned report for one image source.
type ImageReportResponse struct {
	ImageURL        string                 `json:"image_url"`
	EnvironmentType string                 `json:"environment_type"`
	DetectedItems   []DetectedItemResponse `json:"detected_items"`
	Summary         string                 `json:"summary,omitempty"`
}

// ScanRequest starts a scan over a batch of image sources.
type ScanRequest struct {
	EnvironmentType string   `json:"environment_type" binding:"required"`
	Sources         []string `json:"sources" binding:"required,min=1"`
}

// SignupRequest registers a new user.
type SignupRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

// LoginRequest authenticates a user.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// TokenResponse carries an issued JWT.
type TokenResponse struct {
	Token string `json:"token"`
}

// FromItems converts aggregated items to their response shape, preserving order.
func FromItems(items []entity.AggregatedItem) []DetectedItemResponse {
	out := make([]DetectedItemResponse, 0, len(items))
	for _, it := range items {
		out = append(out, DetectedItemResponse{
			Item:            it.Name,
			Count:           it.Count,
			ConfidenceScore: it.AverageConfidence,
		})
	}
	return out
}

// FromReport converts a domain report to its response shape.
func FromReport(r *entity.ImageReport) ImageReportResponse {
	return ImageReportResponse{
		ImageURL:        r.SourceID,
		EnvironmentType: r.EnvironmentType,
		DetectedItems:   FromItems(r.Items),
		Summary:         r.Summary,
	}
}

// FromCollection converts a report collection, preserving source order.
func FromCollection(reports entity.ReportCollection) []ImageReportResponse {
	out := make([]ImageReportResponse, 0, len(reports))
	for _, r := range reports {
		out = append(out, FromReport(r))
	}
	return out
}
