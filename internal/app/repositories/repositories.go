package repositories

import (
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repositories holds all the repository instances
type Repositories struct {
	UserRepository         *UserRepository
	TokenRepository        *TokenRepository
	ScanRepository         *ScanRepository
	ConsultationRepository *ConsultationRepository
	ContactRepository      *ContactRepository
	ArticleRepository      *ArticleRepository
}

// NewRepositories initializes all repositories
func NewRepositories(db *pgxpool.Pool) *Repositories {
	return &Repositories{
		UserRepository:         NewUserRepository(db),
		TokenRepository:        NewTokenRepository(db),
		ScanRepository:         NewScanRepository(db),
		ConsultationRepository: NewConsultationRepository(db),
		ContactRepository:      NewContactRepository(db),
		ArticleRepository:      NewArticleRepository(db),
	}
}
