package mailinglist

//go:generate mockgen -source=repository.go -destination=mock_repository.go -package=mailinglist

import (
	"context"

	"github.com/akeren/tablebook/internal/models"
	apperrors "github.com/akeren/tablebook/pkg/errors"
	"gorm.io/gorm"
)

type MailingListRepository interface {
	// CreateSignup stores one row in user_email. Repeated addresses are stored again.
	CreateSignup(ctx context.Context, signup *models.EmailSignup) (*models.EmailSignup, error)
}

type mailingListRepository struct {
	db *gorm.DB
}

func NewMailingListRepository(db *gorm.DB) MailingListRepository {
	return &mailingListRepository{db: db}
}

func (r *mailingListRepository) CreateSignup(ctx context.Context, signup *models.EmailSignup) (*models.EmailSignup, error) {
	if err := r.db.WithContext(ctx).Create(signup).Error; err != nil {
		return nil, apperrors.NewDatabaseError("unable to save email", err)
	}

	return signup, nil
}
