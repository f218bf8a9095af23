package services

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"github.com/eyecare/visionai/internal/app/auth"
	"github.com/eyecare/visionai/internal/app/models"
	"github.com/eyecare/visionai/internal/app/models/dto"
	"github.com/eyecare/visionai/internal/app/workflow"
	"github.com/eyecare/visionai/internal/pkg/apperrors"
	"github.com/eyecare/visionai/internal/pkg/email"
	"github.com/eyecare/visionai/internal/pkg/helpers"
	"github.com/eyecare/visionai/internal/pkg/validation"
)

// contactStore is the part of the contact repository the service needs.
type contactStore interface {
	Create(ctx context.Context, m *models.ContactMessage) error
	List(ctx context.Context, status *models.ContactStatus, page, pageSize int) ([]models.ContactMessage, int64, error)
	GetByID(ctx context.Context, id int64) (*models.ContactMessage, error)
	Assign(ctx context.Context, id, staffUserID int64) error
	Resolve(ctx context.Context, id int64) error
}

// staffDirectory resolves the email fan-out targets for new messages.
type staffDirectory interface {
	ListStaffEmails(ctx context.Context) ([]string, error)
}

// ContactService handles the public contact inbox and its staff workflow
type ContactService struct {
	messages    contactStore
	staff       staffDirectory
	notifier    email.Notifier
	adminEmails []string
	logger      zerolog.Logger
}

// NewContactService creates a new ContactService. adminEmails is the
// statically configured recipient list joined with the active staff accounts
// on each fan-out.
func NewContactService(messages contactStore, staff staffDirectory, notifier email.Notifier, adminEmails []string, logger zerolog.Logger) *ContactService {
	return &ContactService{
		messages:    messages,
		staff:       staff,
		notifier:    notifier,
		adminEmails: adminEmails,
		logger:      logger,
	}
}

// CreateContactMessage accepts a public contact form submission. No
// authentication is required. Staff are notified by email after the message
// is stored; notification failures never fail the submission.
func (s *ContactService) CreateContactMessage(ctx context.Context, req *dto.CreateContactMessageRequest) (*dto.ContactMessageResponse, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, apperrors.NewValidationError("name", "name is required")
	}
	if !validation.ValidEmail(req.Email) {
		return nil, apperrors.NewValidationError("email", "invalid email format")
	}
	if !validation.TrimmedMinLength(req.Subject, validation.ContactSubjectMinLength) {
		return nil, apperrors.NewValidationError("subject",
			fmt.Sprintf("subject must be at least %d characters", validation.ContactSubjectMinLength))
	}
	if !validation.TrimmedMinLength(req.Message, validation.ContactMessageMinLength) {
		return nil, apperrors.NewValidationError("message",
			fmt.Sprintf("message must be at least %d characters", validation.ContactMessageMinLength))
	}

	msg := &models.ContactMessage{
		Name:    strings.TrimSpace(req.Name),
		Email:   strings.TrimSpace(req.Email),
		Subject: strings.TrimSpace(req.Subject),
		Message: strings.TrimSpace(req.Message),
	}

	if err := s.messages.Create(ctx, msg); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("messageID", msg.ID).Msg("Contact message received")

	go s.notifyStaff(msg)

	resp := dto.FromContactMessage(msg)
	return &resp, nil
}

// notifyStaff fans the new message out to the configured admin list plus all
// active staff accounts, de-duplicated.
func (s *ContactService) notifyStaff(msg *models.ContactMessage) {
	ctx := context.Background()

	recipients := make(map[string]bool)
	for _, addr := range s.adminEmails {
		if addr != "" {
			recipients[addr] = true
		}
	}

	staffEmails, err := s.staff.ListStaffEmails(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to resolve staff emails for contact notification")
	}
	for _, addr := range staffEmails {
		recipients[addr] = true
	}

	list := make([]string, 0, len(recipients))
	for addr := range recipients {
		list = append(list, addr)
	}
	sort.Strings(list)

	if err := s.notifier.SendContactNotification(list, msg); err != nil {
		s.logger.Error().Err(err).Int64("messageID", msg.ID).Msg("Failed to send contact notification")
	}
}

// ListContactMessages returns the inbox for staff. Non-staff principals get
// an empty list, not an error.
func (s *ContactService) ListContactMessages(ctx context.Context, p auth.Principal, status *models.ContactStatus, page, pageSize int) (*dto.ContactMessageListResponse, error) {
	if auth.ContactMessageScope(p) == auth.ScopeNone {
		return &dto.ContactMessageListResponse{
			Messages:   []dto.ContactMessageResponse{},
			Pagination: helpers.NewPaginationInfo(0, page, pageSize),
		}, nil
	}

	records, total, err := s.messages.List(ctx, status, page, pageSize)
	if err != nil {
		return nil, err
	}

	messages := make([]dto.ContactMessageResponse, 0, len(records))
	for i := range records {
		messages = append(messages, dto.FromContactMessage(&records[i]))
	}

	return &dto.ContactMessageListResponse{
		Messages:   messages,
		Pagination: helpers.NewPaginationInfo(total, page, pageSize),
	}, nil
}

// GetContactMessage returns a single message for staff. For non-staff the
// message is absent.
func (s *ContactService) GetContactMessage(ctx context.Context, p auth.Principal, id int64) (*dto.ContactMessageResponse, error) {
	if auth.ContactMessageScope(p) == auth.ScopeNone {
		return nil, apperrors.ErrContactMessageNotFound
	}

	msg, err := s.messages.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	resp := dto.FromContactMessage(msg)
	return &resp, nil
}

// AssignToMe claims a new message for the calling staff member and moves it
// to in_progress.
func (s *ContactService) AssignToMe(ctx context.Context, p auth.Principal, id int64) (*dto.ContactMessageResponse, error) {
	if err := auth.CanManageContactMessages(p); err != nil {
		return nil, err
	}

	current, err := s.messages.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := workflow.AssignContactMessage(current, p.UserID); err != nil {
		return nil, err
	}

	// The repository re-checks the status, so a concurrent claim still loses.
	if err := s.messages.Assign(ctx, id, p.UserID); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("messageID", id).Int64("staffID", p.UserID).Msg("Contact message assigned")

	msg, err := s.messages.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := dto.FromContactMessage(msg)
	return &resp, nil
}

// MarkResolved moves a new or in_progress message to resolved.
func (s *ContactService) MarkResolved(ctx context.Context, p auth.Principal, id int64) (*dto.ContactMessageResponse, error) {
	if err := auth.CanManageContactMessages(p); err != nil {
		return nil, err
	}

	current, err := s.messages.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := workflow.ResolveContactMessage(current); err != nil {
		return nil, err
	}

	if err := s.messages.Resolve(ctx, id); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("messageID", id).Int64("staffID", p.UserID).Msg("Contact message resolved")

	msg, err := s.messages.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := dto.FromContactMessage(msg)
	return &resp, nil
}
