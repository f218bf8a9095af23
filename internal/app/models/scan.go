package models

import (
	"time"
)

// EyeScan defines the eye scan model based on the 'eye_scans' table.
// The classifier fields (condition, confidence, recommendations) are written
// exactly once at creation and are read-only afterwards.
type EyeScan struct {
	ID                int64     `json:"id" db:"id"`
	UserID            int64     `json:"userId" db:"user_id"`
	ImagePath         string    `json:"imagePath" db:"image_path"`
	ConditionDetected Condition `json:"conditionDetected" db:"condition_detected" example:"dryness"`
	ConfidenceScore   float64   `json:"confidenceScore" db:"confidence_score" example:"0.85"`
	Recommendations   string    `json:"recommendations" db:"recommendations"`
	IsReviewed        bool      `json:"isReviewed" db:"is_reviewed"`
	CreatedAt         time.Time `json:"createdAt" db:"created_at"`
}

// ScanReview defines the specialist review model based on the 'scan_reviews'
// table. A scan has at most one review (scan_id is unique).
type ScanReview struct {
	ID              int64     `json:"id" db:"id"`
	ScanID          int64     `json:"scanId" db:"scan_id"`
	SpecialistID    int64     `json:"specialistId" db:"specialist_id"`
	Diagnosis       string    `json:"diagnosis" db:"diagnosis"`
	Recommendations string    `json:"recommendations" db:"recommendations"`
	CreatedAt       time.Time `json:"createdAt" db:"created_at"`
}
