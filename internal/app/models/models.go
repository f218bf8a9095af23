package models

// RoleType defines the user role type
type RoleType string

const (
	RolePatient    RoleType = "PATIENT"
	RoleSpecialist RoleType = "SPECIALIST"
	RoleAdmin      RoleType = "ADMIN"
)

// Valid reports whether the role is one of the known roles.
func (r RoleType) Valid() bool {
	switch r {
	case RolePatient, RoleSpecialist, RoleAdmin:
		return true
	}
	return false
}

// IsStaff reports whether the role may handle contact messages.
func (r RoleType) IsStaff() bool {
	return r == RoleAdmin || r == RoleSpecialist
}

// Condition is the label produced by the scan classifier.
type Condition string

const (
	ConditionCataract       Condition = "cataract"
	ConditionRedness        Condition = "redness"
	ConditionDryness        Condition = "dryness"
	ConditionGlaucoma       Condition = "glaucoma"
	ConditionConjunctivitis Condition = "conjunctivitis"
	ConditionNormal         Condition = "normal"
)

// ConsultationStatus is the lifecycle state of a consultation.
type ConsultationStatus string

const (
	ConsultationPending   ConsultationStatus = "pending"
	ConsultationApproved  ConsultationStatus = "approved"
	ConsultationCompleted ConsultationStatus = "completed"
	ConsultationCancelled ConsultationStatus = "cancelled"
)

// ContactStatus is the lifecycle state of a contact message.
type ContactStatus string

const (
	ContactNew        ContactStatus = "new"
	ContactInProgress ContactStatus = "in_progress"
	ContactResolved   ContactStatus = "resolved"
)

// Valid reports whether the status is one of the known statuses.
func (s ContactStatus) Valid() bool {
	switch s {
	case ContactNew, ContactInProgress, ContactResolved:
		return true
	}
	return false
}

// ArticleCategory classifies published articles.
type ArticleCategory string

const (
	CategoryPrevention ArticleCategory = "prevention"
	CategorySymptoms   ArticleCategory = "symptoms"
	CategoryTreatment  ArticleCategory = "treatment"
	CategoryGeneral    ArticleCategory = "general"
)

// Valid reports whether the category is one of the known categories.
func (c ArticleCategory) Valid() bool {
	switch c {
	case CategoryPrevention, CategorySymptoms, CategoryTreatment, CategoryGeneral:
		return true
	}
	return false
}
