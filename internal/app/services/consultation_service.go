package services

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/eyecare/visionai/internal/app/auth"
	"github.com/eyecare/visionai/internal/app/models"
	"github.com/eyecare/visionai/internal/app/models/dto"
	"github.com/eyecare/visionai/internal/app/repositories"
	"github.com/eyecare/visionai/internal/app/workflow"
	"github.com/eyecare/visionai/internal/pkg/apperrors"
	"github.com/eyecare/visionai/internal/pkg/email"
	"github.com/eyecare/visionai/internal/pkg/helpers"
)

// consultationStore is the part of the consultation repository the service needs.
type consultationStore interface {
	Create(ctx context.Context, c *models.Consultation) error
	List(ctx context.Context, p auth.Principal, page, pageSize int) ([]repositories.ConsultationRecord, int64, error)
	GetByID(ctx context.Context, p auth.Principal, id int64) (*repositories.ConsultationRecord, error)
	UpdateStatus(ctx context.Context, id int64, from, to models.ConsultationStatus) error
}

// consultationUserStore is the part of the user repository the service needs.
type consultationUserStore interface {
	GetByID(ctx context.Context, id int64) (*models.User, error)
}

// consultationScanStore resolves a scan through the principal's scope.
type consultationScanStore interface {
	GetByID(ctx context.Context, p auth.Principal, id int64) (*repositories.ScanRecord, error)
}

// ConsultationService handles consultation booking and its status lifecycle
type ConsultationService struct {
	consultations consultationStore
	users         consultationUserStore
	scans         consultationScanStore
	notifier      email.Notifier
	logger        zerolog.Logger
}

// NewConsultationService creates a new ConsultationService
func NewConsultationService(
	consultations consultationStore,
	users consultationUserStore,
	scans consultationScanStore,
	notifier email.Notifier,
	logger zerolog.Logger,
) *ConsultationService {
	return &ConsultationService{
		consultations: consultations,
		users:         users,
		scans:         scans,
		notifier:      notifier,
		logger:        logger,
	}
}

// CreateConsultation books a consultation with a specialist. The assigned
// specialist is notified by email after the booking is stored; notification
// failures never fail the booking.
func (s *ConsultationService) CreateConsultation(ctx context.Context, p auth.Principal, req *dto.CreateConsultationRequest) (*dto.ConsultationResponse, error) {
	if err := auth.CanCreateConsultation(p); err != nil {
		return nil, err
	}

	if strings.TrimSpace(req.Description) == "" {
		return nil, apperrors.NewValidationError("description", "description is required")
	}

	specialist, err := s.users.GetByID(ctx, req.SpecialistID)
	if err != nil || specialist.RoleType != models.RoleSpecialist || !specialist.IsActive {
		return nil, apperrors.NewCustomError(apperrors.ErrNotASpecialist,
			"selected user is not an active specialist")
	}

	// An attached scan must be one the patient can see, which for patients
	// means their own.
	if req.ScanID != nil {
		if _, err := s.scans.GetByID(ctx, p, *req.ScanID); err != nil {
			return nil, apperrors.NewValidationError("scanId", "scan not found")
		}
	}

	consultation := &models.Consultation{
		UserID:        p.UserID,
		SpecialistID:  req.SpecialistID,
		ScanID:        req.ScanID,
		Description:   strings.TrimSpace(req.Description),
		ScheduledDate: req.ScheduledDate,
	}

	if err := s.consultations.Create(ctx, consultation); err != nil {
		return nil, err
	}

	s.logger.Info().
		Int64("consultationID", consultation.ID).
		Int64("userID", p.UserID).
		Int64("specialistID", req.SpecialistID).
		Msg("Consultation created")

	patientName := ""
	if patient, err := s.users.GetByID(ctx, p.UserID); err == nil {
		patientName = patient.FullName()
	}

	if specialist.Email != "" {
		go s.notifySpecialist(specialist.Email, consultation, patientName)
	}

	resp := dto.FromConsultation(consultation)
	resp.UserName = patientName
	resp.SpecialistName = specialist.FullName()
	return &resp, nil
}

func (s *ConsultationService) notifySpecialist(toEmail string, consultation *models.Consultation, patientName string) {
	if err := s.notifier.SendConsultationRequest(toEmail, consultation, patientName); err != nil {
		s.logger.Error().Err(err).
			Int64("consultationID", consultation.ID).
			Msg("Failed to send consultation notification")
	}
}

// ListConsultations returns the consultations visible to the principal
func (s *ConsultationService) ListConsultations(ctx context.Context, p auth.Principal, page, pageSize int) (*dto.ConsultationListResponse, error) {
	records, total, err := s.consultations.List(ctx, p, page, pageSize)
	if err != nil {
		return nil, err
	}

	consultations := make([]dto.ConsultationResponse, 0, len(records))
	for i := range records {
		consultations = append(consultations, consultationResponse(&records[i]))
	}

	return &dto.ConsultationListResponse{
		Consultations: consultations,
		Pagination:    helpers.NewPaginationInfo(total, page, pageSize),
	}, nil
}

// GetConsultation returns a single consultation visible to the principal
func (s *ConsultationService) GetConsultation(ctx context.Context, p auth.Principal, id int64) (*dto.ConsultationResponse, error) {
	record, err := s.consultations.GetByID(ctx, p, id)
	if err != nil {
		return nil, err
	}
	resp := consultationResponse(record)
	return &resp, nil
}

// ApproveConsultation moves a pending consultation to approved. Only the
// assigned specialist may approve.
func (s *ConsultationService) ApproveConsultation(ctx context.Context, p auth.Principal, id int64) (*dto.ConsultationResponse, error) {
	return s.transition(ctx, p, id, auth.CanApproveConsultation, workflow.ApproveConsultation)
}

// CompleteConsultation moves an approved consultation to completed. Only the
// assigned specialist may complete, and a pending consultation cannot skip
// straight to completed.
func (s *ConsultationService) CompleteConsultation(ctx context.Context, p auth.Principal, id int64) (*dto.ConsultationResponse, error) {
	return s.transition(ctx, p, id, auth.CanCompleteConsultation, workflow.CompleteConsultation)
}

// CancelConsultation cancels a pending or approved consultation. Either
// participant may cancel.
func (s *ConsultationService) CancelConsultation(ctx context.Context, p auth.Principal, id int64) (*dto.ConsultationResponse, error) {
	return s.transition(ctx, p, id, auth.CanCancelConsultation, workflow.CancelConsultation)
}

func (s *ConsultationService) transition(
	ctx context.Context,
	p auth.Principal,
	id int64,
	allowed func(auth.Principal, *models.Consultation) error,
	apply func(*models.Consultation) error,
) (*dto.ConsultationResponse, error) {
	record, err := s.consultations.GetByID(ctx, p, id)
	if err != nil {
		return nil, err
	}

	if err := allowed(p, &record.Consultation); err != nil {
		return nil, err
	}

	from := record.Status
	if err := apply(&record.Consultation); err != nil {
		return nil, err
	}

	if err := s.consultations.UpdateStatus(ctx, id, from, record.Status); err != nil {
		return nil, err
	}

	s.logger.Info().
		Int64("consultationID", id).
		Str("from", string(from)).
		Str("to", string(record.Status)).
		Int64("actorID", p.UserID).
		Msg("Consultation status changed")

	resp := consultationResponse(record)
	return &resp, nil
}

func consultationResponse(record *repositories.ConsultationRecord) dto.ConsultationResponse {
	resp := dto.FromConsultation(&record.Consultation)
	resp.UserName = record.UserName
	resp.SpecialistName = record.SpecialistName
	return resp
}
