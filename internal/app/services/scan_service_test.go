package services

import (
	"context"
	"mime/multipart"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eyecare/visionai/internal/app/auth"
	"github.com/eyecare/visionai/internal/app/models"
	"github.com/eyecare/visionai/internal/app/models/dto"
	"github.com/eyecare/visionai/internal/app/repositories"
	"github.com/eyecare/visionai/internal/pkg/apperrors"
	"github.com/eyecare/visionai/internal/pkg/classifier"
)

// fakeScanStore keeps scans and reviews in memory with the same
// one-review-per-scan semantics as the real repository.
type fakeScanStore struct {
	scans   map[int64]*repositories.ScanRecord
	reviews map[int64]*repositories.ReviewRecord
	nextID  int64
}

func newFakeScanStore() *fakeScanStore {
	return &fakeScanStore{
		scans:   map[int64]*repositories.ScanRecord{},
		reviews: map[int64]*repositories.ReviewRecord{},
		nextID:  1,
	}
}

func (f *fakeScanStore) Create(_ context.Context, scan *models.EyeScan) error {
	scan.ID = f.nextID
	f.nextID++
	f.scans[scan.ID] = &repositories.ScanRecord{EyeScan: *scan}
	return nil
}

func (f *fakeScanStore) List(_ context.Context, p auth.Principal, _, _ int) ([]repositories.ScanRecord, int64, error) {
	var out []repositories.ScanRecord
	scope := auth.ScanScope(p)
	for _, rec := range f.scans {
		if scope == auth.ScopeAll || (scope == auth.ScopeMine && rec.UserID == p.UserID) {
			out = append(out, *rec)
		}
	}
	return out, int64(len(out)), nil
}

func (f *fakeScanStore) GetByID(_ context.Context, p auth.Principal, id int64) (*repositories.ScanRecord, error) {
	rec, ok := f.scans[id]
	if !ok {
		return nil, apperrors.ErrScanNotFound
	}
	scope := auth.ScanScope(p)
	if scope == auth.ScopeNone || (scope == auth.ScopeMine && rec.UserID != p.UserID) {
		return nil, apperrors.ErrScanNotFound
	}
	cp := *rec
	return &cp, nil
}

func (f *fakeScanStore) CreateReview(_ context.Context, review *models.ScanReview) error {
	rec, ok := f.scans[review.ScanID]
	if !ok {
		return apperrors.ErrScanNotFound
	}
	if rec.IsReviewed {
		return apperrors.ErrScanAlreadyReviewed
	}
	rec.IsReviewed = true
	review.ID = f.nextID
	f.nextID++
	f.reviews[review.ScanID] = &repositories.ReviewRecord{ScanReview: *review}
	return nil
}

func (f *fakeScanStore) GetReviewByScanID(_ context.Context, scanID int64) (*repositories.ReviewRecord, error) {
	rec, ok := f.reviews[scanID]
	if !ok {
		return nil, nil
	}
	cp := *rec
	return &cp, nil
}

func (f *fakeScanStore) ListReviews(_ context.Context, p auth.Principal, _, _ int) ([]repositories.ReviewRecord, int64, error) {
	var out []repositories.ReviewRecord
	for _, rec := range f.reviews {
		switch auth.ReviewScope(p) {
		case auth.ScopeAll:
			out = append(out, *rec)
		case auth.ScopeMine:
			if p.Role == models.RoleSpecialist && rec.SpecialistID == p.UserID {
				out = append(out, *rec)
			}
			if p.Role == models.RolePatient {
				if scan, ok := f.scans[rec.ScanID]; ok && scan.UserID == p.UserID {
					out = append(out, *rec)
				}
			}
		}
	}
	return out, int64(len(out)), nil
}

// fakeStorage records saves without touching the filesystem.
type fakeStorage struct {
	saved   []string
	deleted []string
}

func (f *fakeStorage) Save(_ *multipart.FileHeader, subDir string) (string, error) {
	path := subDir + "/stored.jpg"
	f.saved = append(f.saved, path)
	return path, nil
}

func (f *fakeStorage) Delete(relPath string) error {
	f.deleted = append(f.deleted, relPath)
	return nil
}

func (f *fakeStorage) URL(relPath string) string {
	return "http://localhost/uploads/" + relPath
}

// stubClassifier always returns the same result.
type stubClassifier struct {
	result classifier.Result
}

func (s stubClassifier) Classify(string) classifier.Result {
	return s.result
}

func drynessClassifier() stubClassifier {
	return stubClassifier{result: classifier.Result{
		Condition:      models.ConditionDryness,
		Confidence:     0.85,
		Recommendation: classifier.Recommendations[models.ConditionDryness],
	}}
}

func newScanService(store *fakeScanStore) (*ScanService, *fakeStorage) {
	storage := &fakeStorage{}
	svc := NewScanService(store, storage, drynessClassifier(), zerolog.Nop())
	return svc, storage
}

func uploadHeader() *multipart.FileHeader {
	return &multipart.FileHeader{Filename: "eye.jpg"}
}

func TestCreateScanPatientOnly(t *testing.T) {
	svc, _ := newScanService(newFakeScanStore())

	_, err := svc.CreateScan(context.Background(), specialistPrincipal(2), uploadHeader())
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)

	_, err = svc.CreateScan(context.Background(), adminPrincipal(3), uploadHeader())
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
}

func TestCreateScanStoresClassifierResult(t *testing.T) {
	store := newFakeScanStore()
	svc, storage := newScanService(store)

	resp, err := svc.CreateScan(context.Background(), patientPrincipal(1), uploadHeader())
	require.NoError(t, err)

	assert.Equal(t, "dryness", resp.ConditionDetected)
	assert.Equal(t, 0.85, resp.ConfidenceScore)
	assert.Equal(t, classifier.Recommendations[models.ConditionDryness], resp.Recommendations)
	assert.False(t, resp.IsReviewed)
	assert.Len(t, storage.saved, 1)
}

func TestCreateScanRejectsUnknownExtension(t *testing.T) {
	svc, storage := newScanService(newFakeScanStore())

	_, err := svc.CreateScan(context.Background(), patientPrincipal(1),
		&multipart.FileHeader{Filename: "notes.txt"})

	var vErr *apperrors.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "image", vErr.Field)
	assert.Empty(t, storage.saved)
}

func TestPatientCannotSeeOthersScans(t *testing.T) {
	store := newFakeScanStore()
	svc, _ := newScanService(store)

	created, err := svc.CreateScan(context.Background(), patientPrincipal(1), uploadHeader())
	require.NoError(t, err)

	// the other patient gets not found, not forbidden
	_, err = svc.GetScan(context.Background(), patientPrincipal(2), created.ID)
	assert.ErrorIs(t, err, apperrors.ErrScanNotFound)

	list, err := svc.ListScans(context.Background(), patientPrincipal(2), 1, 10)
	require.NoError(t, err)
	assert.Empty(t, list.Scans)
}

func TestCreateReviewFlow(t *testing.T) {
	store := newFakeScanStore()
	svc, _ := newScanService(store)

	created, err := svc.CreateScan(context.Background(), patientPrincipal(1), uploadHeader())
	require.NoError(t, err)

	review, err := svc.CreateReview(context.Background(), specialistPrincipal(2), created.ID,
		&dto.CreateReviewRequest{
			Diagnosis:       "Mild dry eye syndrome observed",
			Recommendations: "Use lubricating drops twice daily",
		})
	require.NoError(t, err)
	assert.Equal(t, created.ID, review.ScanID)
	assert.Equal(t, int64(2), review.SpecialistID)

	// the scan now reads as reviewed, with the review embedded
	got, err := svc.GetScan(context.Background(), patientPrincipal(1), created.ID)
	require.NoError(t, err)
	assert.True(t, got.IsReviewed)
	require.NotNil(t, got.Review)
	assert.Equal(t, "Mild dry eye syndrome observed", got.Review.Diagnosis)
}

func TestSecondReviewConflicts(t *testing.T) {
	store := newFakeScanStore()
	svc, _ := newScanService(store)

	created, err := svc.CreateScan(context.Background(), patientPrincipal(1), uploadHeader())
	require.NoError(t, err)

	req := &dto.CreateReviewRequest{
		Diagnosis:       "Mild dry eye syndrome observed",
		Recommendations: "Use lubricating drops twice daily",
	}
	_, err = svc.CreateReview(context.Background(), specialistPrincipal(2), created.ID, req)
	require.NoError(t, err)

	_, err = svc.CreateReview(context.Background(), specialistPrincipal(3), created.ID, req)
	assert.ErrorIs(t, err, apperrors.ErrScanAlreadyReviewed)
}

func TestCreateReviewSpecialistOnly(t *testing.T) {
	store := newFakeScanStore()
	svc, _ := newScanService(store)

	created, err := svc.CreateScan(context.Background(), patientPrincipal(1), uploadHeader())
	require.NoError(t, err)

	req := &dto.CreateReviewRequest{
		Diagnosis:       "Mild dry eye syndrome observed",
		Recommendations: "Use lubricating drops twice daily",
	}
	_, err = svc.CreateReview(context.Background(), patientPrincipal(1), created.ID, req)
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)

	_, err = svc.CreateReview(context.Background(), adminPrincipal(3), created.ID, req)
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
}

func TestCreateReviewFieldValidation(t *testing.T) {
	store := newFakeScanStore()
	svc, _ := newScanService(store)

	created, err := svc.CreateScan(context.Background(), patientPrincipal(1), uploadHeader())
	require.NoError(t, err)

	_, err = svc.CreateReview(context.Background(), specialistPrincipal(2), created.ID,
		&dto.CreateReviewRequest{Diagnosis: "too short", Recommendations: "Use lubricating drops twice daily"})

	var vErr *apperrors.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "diagnosis", vErr.Field)
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)

	// padding whitespace does not rescue a short field
	_, err = svc.CreateReview(context.Background(), specialistPrincipal(2), created.ID,
		&dto.CreateReviewRequest{Diagnosis: "   short    ", Recommendations: "Use lubricating drops twice daily"})
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "diagnosis", vErr.Field)
}

func TestListReviewsScoping(t *testing.T) {
	store := newFakeScanStore()
	svc, _ := newScanService(store)

	created, err := svc.CreateScan(context.Background(), patientPrincipal(1), uploadHeader())
	require.NoError(t, err)

	_, err = svc.CreateReview(context.Background(), specialistPrincipal(2), created.ID,
		&dto.CreateReviewRequest{
			Diagnosis:       "Mild dry eye syndrome observed",
			Recommendations: "Use lubricating drops twice daily",
		})
	require.NoError(t, err)

	// the authoring specialist and the scan owner both see the review
	authored, err := svc.ListReviews(context.Background(), specialistPrincipal(2), 1, 10)
	require.NoError(t, err)
	assert.Len(t, authored.Reviews, 1)

	owned, err := svc.ListReviews(context.Background(), patientPrincipal(1), 1, 10)
	require.NoError(t, err)
	assert.Len(t, owned.Reviews, 1)

	// an unrelated patient sees nothing
	other, err := svc.ListReviews(context.Background(), patientPrincipal(9), 1, 10)
	require.NoError(t, err)
	assert.Empty(t, other.Reviews)
}
