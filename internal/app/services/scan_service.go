package services

import (
	"context"
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/eyecare/visionai/internal/app/auth"
	"github.com/eyecare/visionai/internal/app/models"
	"github.com/eyecare/visionai/internal/app/models/dto"
	"github.com/eyecare/visionai/internal/app/repositories"
	"github.com/eyecare/visionai/internal/pkg/apperrors"
	"github.com/eyecare/visionai/internal/pkg/classifier"
	"github.com/eyecare/visionai/internal/pkg/filestorage"
	"github.com/eyecare/visionai/internal/pkg/helpers"
	"github.com/eyecare/visionai/internal/pkg/validation"
)

// scanStore is the part of the scan repository the scan service needs.
type scanStore interface {
	Create(ctx context.Context, scan *models.EyeScan) error
	List(ctx context.Context, p auth.Principal, page, pageSize int) ([]repositories.ScanRecord, int64, error)
	GetByID(ctx context.Context, p auth.Principal, id int64) (*repositories.ScanRecord, error)
	CreateReview(ctx context.Context, review *models.ScanReview) error
	GetReviewByScanID(ctx context.Context, scanID int64) (*repositories.ReviewRecord, error)
	ListReviews(ctx context.Context, p auth.Principal, page, pageSize int) ([]repositories.ReviewRecord, int64, error)
}

// allowed upload extensions for scan images
var allowedScanExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
}

// ScanService handles eye scan uploads, classification and reviews
type ScanService struct {
	scans      scanStore
	storage    filestorage.Storage
	classifier classifier.Classifier
	logger     zerolog.Logger
}

// NewScanService creates a new ScanService
func NewScanService(scans scanStore, storage filestorage.Storage, cls classifier.Classifier, logger zerolog.Logger) *ScanService {
	return &ScanService{
		scans:      scans,
		storage:    storage,
		classifier: cls,
		logger:     logger,
	}
}

// CreateScan stores an uploaded scan image, runs the classifier and persists
// the result. The classifier output is written once and never changes.
func (s *ScanService) CreateScan(ctx context.Context, p auth.Principal, fileHeader *multipart.FileHeader) (*dto.ScanResponse, error) {
	if err := auth.CanCreateScan(p); err != nil {
		return nil, err
	}

	if fileHeader == nil {
		return nil, apperrors.NewValidationError("image", "scan image is required")
	}
	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	if !allowedScanExtensions[ext] {
		return nil, apperrors.NewValidationError("image", "scan image must be a .jpg, .jpeg or .png file")
	}

	imagePath, err := s.storage.Save(fileHeader, "scans")
	if err != nil {
		return nil, fmt.Errorf("error storing scan image: %w", err)
	}

	result := s.classifier.Classify(imagePath)

	scan := &models.EyeScan{
		UserID:            p.UserID,
		ImagePath:         imagePath,
		ConditionDetected: result.Condition,
		ConfidenceScore:   result.Confidence,
		Recommendations:   result.Recommendation,
	}

	if err := s.scans.Create(ctx, scan); err != nil {
		if delErr := s.storage.Delete(imagePath); delErr != nil {
			s.logger.Warn().Err(delErr).Str("path", imagePath).Msg("Failed to clean up orphaned scan image")
		}
		return nil, err
	}

	s.logger.Info().
		Int64("scanID", scan.ID).
		Int64("userID", p.UserID).
		Str("condition", string(scan.ConditionDetected)).
		Float64("confidence", scan.ConfidenceScore).
		Msg("Eye scan created")

	resp := dto.FromScan(scan, s.storage.URL(scan.ImagePath))
	return &resp, nil
}

// ListScans returns the scans visible to the principal
func (s *ScanService) ListScans(ctx context.Context, p auth.Principal, page, pageSize int) (*dto.ScanListResponse, error) {
	records, total, err := s.scans.List(ctx, p, page, pageSize)
	if err != nil {
		return nil, err
	}

	scans := make([]dto.ScanResponse, 0, len(records))
	for i := range records {
		resp := dto.FromScan(&records[i].EyeScan, s.storage.URL(records[i].ImagePath))
		resp.UserName = records[i].UserName
		scans = append(scans, resp)
	}

	return &dto.ScanListResponse{
		Scans:      scans,
		Pagination: helpers.NewPaginationInfo(total, page, pageSize),
	}, nil
}

// GetScan returns a single scan with its review embedded, if reviewed
func (s *ScanService) GetScan(ctx context.Context, p auth.Principal, id int64) (*dto.ScanResponse, error) {
	record, err := s.scans.GetByID(ctx, p, id)
	if err != nil {
		return nil, err
	}

	resp := dto.FromScan(&record.EyeScan, s.storage.URL(record.ImagePath))
	resp.UserName = record.UserName

	if record.IsReviewed {
		review, err := s.scans.GetReviewByScanID(ctx, id)
		if err != nil {
			return nil, err
		}
		if review != nil {
			reviewResp := dto.FromReview(&review.ScanReview)
			reviewResp.SpecialistName = review.SpecialistName
			resp.Review = &reviewResp
		}
	}

	return &resp, nil
}

// CreateReview records a specialist's review of a scan. A scan takes exactly
// one review; the second attempt reports a conflict.
func (s *ScanService) CreateReview(ctx context.Context, p auth.Principal, scanID int64, req *dto.CreateReviewRequest) (*dto.ReviewResponse, error) {
	if err := auth.CanReviewScan(p); err != nil {
		return nil, err
	}

	if !validation.TrimmedMinLength(req.Diagnosis, validation.ReviewFieldMinLength) {
		return nil, apperrors.NewValidationError("diagnosis",
			fmt.Sprintf("diagnosis must be at least %d characters", validation.ReviewFieldMinLength))
	}
	if !validation.TrimmedMinLength(req.Recommendations, validation.ReviewFieldMinLength) {
		return nil, apperrors.NewValidationError("recommendations",
			fmt.Sprintf("recommendations must be at least %d characters", validation.ReviewFieldMinLength))
	}

	// Resolving the scan through the principal's scope keeps hidden scans
	// indistinguishable from absent ones.
	if _, err := s.scans.GetByID(ctx, p, scanID); err != nil {
		return nil, err
	}

	review := &models.ScanReview{
		ScanID:          scanID,
		SpecialistID:    p.UserID,
		Diagnosis:       strings.TrimSpace(req.Diagnosis),
		Recommendations: strings.TrimSpace(req.Recommendations),
	}

	if err := s.scans.CreateReview(ctx, review); err != nil {
		return nil, err
	}

	s.logger.Info().
		Int64("scanID", scanID).
		Int64("specialistID", p.UserID).
		Msg("Scan review created")

	resp := dto.FromReview(review)
	return &resp, nil
}

// ListReviews returns the reviews visible to the principal
func (s *ScanService) ListReviews(ctx context.Context, p auth.Principal, page, pageSize int) (*dto.ReviewListResponse, error) {
	records, total, err := s.scans.ListReviews(ctx, p, page, pageSize)
	if err != nil {
		return nil, err
	}

	reviews := make([]dto.ReviewResponse, 0, len(records))
	for i := range records {
		resp := dto.FromReview(&records[i].ScanReview)
		resp.SpecialistName = records[i].SpecialistName
		reviews = append(reviews, resp)
	}

	return &dto.ReviewListResponse{
		Reviews:    reviews,
		Pagination: helpers.NewPaginationInfo(total, page, pageSize),
	}, nil
}
