package feedback

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/LakshiRajika/dhananjee-fruit-and-sweet-centre-sub000/pkg/db/models"
	pkgerrors "github.com/LakshiRajika/dhananjee-fruit-and-sweet-centre-sub000/pkg/errors"
)

// Input carries a new customer review.
type Input struct {
	UserID   string  `json:"userId" validate:"required"`
	OrderID  *string `json:"orderId"`
	Rating   int     `json:"rating" validate:"required,gte=1,lte=5"`
	Comment  string  `json:"comment" validate:"required"`
	ImageRef *string `json:"imageRef"`
}

// Service exposes business rules for customer feedback.
type Service interface {
	Create(ctx context.Context, input Input) (*models.Feedback, error)
	List(ctx context.Context) ([]models.Feedback, error)
	ListByUser(ctx context.Context, userID string) ([]models.Feedback, error)
	Delete(ctx context.Context, userID string, id uuid.UUID) error
}

type service struct {
	repo Repository
}

// NewService builds a feedback service with the required dependencies.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "feedback repo is required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Create(ctx context.Context, input Input) (*models.Feedback, error) {
	if strings.TrimSpace(input.UserID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	if input.Rating < 1 || input.Rating > 5 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "rating must be between 1 and 5")
	}
	if strings.TrimSpace(input.Comment) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "comment is required")
	}

	feedback := &models.Feedback{
		UserID:   strings.TrimSpace(input.UserID),
		OrderID:  input.OrderID,
		Rating:   input.Rating,
		Comment:  strings.TrimSpace(input.Comment),
		ImageRef: input.ImageRef,
	}
	created, err := s.repo.Create(ctx, feedback)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create feedback")
	}
	return created, nil
}

func (s *service) List(ctx context.Context) ([]models.Feedback, error) {
	out, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list feedback")
	}
	return out, nil
}

func (s *service) ListByUser(ctx context.Context, userID string) ([]models.Feedback, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	out, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list feedback")
	}
	return out, nil
}

// Delete removes a review; users may only remove their own.
func (s *service) Delete(ctx context.Context, userID string, id uuid.UUID) error {
	if id == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "feedback id is required")
	}
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "feedback not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load feedback")
	}
	if userID != "" && existing.UserID != userID {
		return pkgerrors.New(pkgerrors.CodeForbidden, "feedback belongs to another user")
	}
	if _, err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete feedback")
	}
	return nil
}
