package dto

import (
	"time"

	"github.com/eyecare/visionai/internal/app/models"
)

// ScanResponse represents the response for an eye scan
type ScanResponse struct {
	ID                int64           `json:"id"`
	UserID            int64           `json:"userId"`
	UserName          string          `json:"userName,omitempty"`
	ImageURL          string          `json:"imageUrl"`
	ConditionDetected string          `json:"conditionDetected"`
	ConfidenceScore   float64         `json:"confidenceScore"`
	Recommendations   string          `json:"recommendations"`
	IsReviewed        bool            `json:"isReviewed"`
	Review            *ReviewResponse `json:"review,omitempty"`
	CreatedAt         time.Time       `json:"createdAt"`
}

// ScanListResponse represents the response for a list of scans with pagination
type ScanListResponse struct {
	Scans      []ScanResponse `json:"scans"`
	Pagination PaginationInfo `json:"pagination"`
}

// CreateReviewRequest represents a specialist's review of a scan
type CreateReviewRequest struct {
	Diagnosis       string `json:"diagnosis" binding:"required"`
	Recommendations string `json:"recommendations" binding:"required"`
}

// ReviewResponse represents the response for a scan review
type ReviewResponse struct {
	ID              int64     `json:"id"`
	ScanID          int64     `json:"scanId"`
	SpecialistID    int64     `json:"specialistId"`
	SpecialistName  string    `json:"specialistName,omitempty"`
	Diagnosis       string    `json:"diagnosis"`
	Recommendations string    `json:"recommendations"`
	CreatedAt       time.Time `json:"createdAt"`
}

// ReviewListResponse represents the response for a list of reviews
type ReviewListResponse struct {
	Reviews    []ReviewResponse `json:"reviews"`
	Pagination PaginationInfo   `json:"pagination"`
}

// FromScan converts a models.EyeScan to a ScanResponse
func FromScan(scan *models.EyeScan, imageURL string) ScanResponse {
	if scan == nil {
		return ScanResponse{}
	}

	return ScanResponse{
		ID:                scan.ID,
		UserID:            scan.UserID,
		ImageURL:          imageURL,
		ConditionDetected: string(scan.ConditionDetected),
		ConfidenceScore:   scan.ConfidenceScore,
		Recommendations:   scan.Recommendations,
		IsReviewed:        scan.IsReviewed,
		CreatedAt:         scan.CreatedAt,
	}
}

// FromReview converts a models.ScanReview to a ReviewResponse
func FromReview(review *models.ScanReview) ReviewResponse {
	if review == nil {
		return ReviewResponse{}
	}

	return ReviewResponse{
		ID:              review.ID,
		ScanID:          review.ScanID,
		SpecialistID:    review.SpecialistID,
		Diagnosis:       review.Diagnosis,
		Recommendations: review.Recommendations,
		CreatedAt:       review.CreatedAt,
	}
}
