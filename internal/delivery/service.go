package delivery

import (
	"context"
	"errors"
	"strings"

	"github.com/LakshiRajika/dhananjee-fruit-and-sweet-centre-sub000/pkg/db/models"
	"github.com/LakshiRajika/dhananjee-fruit-and-sweet-centre-sub000/pkg/enums"
	pkgerrors "github.com/LakshiRajika/dhananjee-fruit-and-sweet-centre-sub000/pkg/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ProfileInput carries the writable fields of a delivery profile.
// TotalAmount is intentionally absent: it is always recomputed server-side.
type ProfileInput struct {
	UserID                  string          `json:"userId" validate:"required"`
	CustomerName            string          `json:"customerName" validate:"required"`
	MobileNumber            string          `json:"mobileNumber" validate:"required"`
	Email                   string          `json:"email" validate:"required,email"`
	Address                 string          `json:"address" validate:"required"`
	PostalCode              string          `json:"postalCode" validate:"required"`
	District                string          `json:"district" validate:"required"`
	PreferredPaymentChannel string          `json:"preferredPaymentChannel"`
	Courier                 string          `json:"courier"`
	Amount                  decimal.Decimal `json:"amount" validate:"required"`
	DeliveryCharge          decimal.Decimal `json:"deliveryCharge"`
}

// Service exposes business rules for delivery profiles.
type Service interface {
	Create(ctx context.Context, input ProfileInput) (*models.DeliveryProfile, error)
	Get(ctx context.Context, id uuid.UUID) (*models.DeliveryProfile, error)
	ListByUser(ctx context.Context, userID string) ([]models.DeliveryProfile, error)
	Update(ctx context.Context, id uuid.UUID, input ProfileInput) (*models.DeliveryProfile, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*models.DeliveryProfile, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo Repository
}

// NewService builds a delivery service with the required dependencies.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "delivery repo is required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Create(ctx context.Context, input ProfileInput) (*models.DeliveryProfile, error) {
	profile, err := buildProfile(input)
	if err != nil {
		return nil, err
	}

	created, err := s.repo.Create(ctx, profile)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create delivery profile")
	}
	return created, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.DeliveryProfile, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "delivery profile id is required")
	}
	profile, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "delivery profile not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load delivery profile")
	}
	return profile, nil
}

func (s *service) ListByUser(ctx context.Context, userID string) ([]models.DeliveryProfile, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	profiles, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list delivery profiles")
	}
	return profiles, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input ProfileInput) (*models.DeliveryProfile, error) {
	existing, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	updated, err := buildProfile(input)
	if err != nil {
		return nil, err
	}
	updated.ID = existing.ID
	updated.Status = existing.Status
	updated.CreatedAt = existing.CreatedAt

	saved, err := s.repo.Update(ctx, updated)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update delivery profile")
	}
	return saved, nil
}

// UpdateStatus moves a delivery along its lifecycle. Moves outside the
// whitelist are rejected so a delivered parcel can never go back on a truck.
func (s *service) UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*models.DeliveryProfile, error) {
	next, err := enums.ParseDeliveryStatus(status)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid delivery status")
	}

	profile, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if !profile.Status.CanTransitionTo(next) {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "delivery status transition not allowed").
			WithDetails(map[string]any{"from": profile.Status, "to": next})
	}

	profile.Status = next
	saved, err := s.repo.Update(ctx, profile)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update delivery status")
	}
	return saved, nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "delivery profile id is required")
	}
	affected, err := s.repo.Delete(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete delivery profile")
	}
	if affected == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "delivery profile not found")
	}
	return nil
}

func buildProfile(input ProfileInput) (*models.DeliveryProfile, error) {
	required := []struct {
		field, value string
	}{
		{"userId", input.UserID},
		{"customerName", input.CustomerName},
		{"mobileNumber", input.MobileNumber},
		{"email", input.Email},
		{"address", input.Address},
		{"postalCode", input.PostalCode},
		{"district", input.District},
	}
	for _, item := range required {
		if strings.TrimSpace(item.value) == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "missing required field").
				WithDetails(map[string]any{"field": item.field})
		}
	}
	if input.Amount.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "amount cannot be negative")
	}
	if input.DeliveryCharge.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "delivery charge cannot be negative")
	}

	channel := enums.PaymentMethodCash
	if strings.TrimSpace(input.PreferredPaymentChannel) != "" {
		parsed, err := enums.ParsePaymentMethod(input.PreferredPaymentChannel)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid payment channel")
		}
		channel = parsed
	}

	courier := enums.CourierStoreDelivery
	if strings.TrimSpace(input.Courier) != "" {
		parsed, err := enums.ParseCourier(input.Courier)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid courier")
		}
		courier = parsed
	}

	return &models.DeliveryProfile{
		UserID:                  strings.TrimSpace(input.UserID),
		CustomerName:            strings.TrimSpace(input.CustomerName),
		MobileNumber:            strings.TrimSpace(input.MobileNumber),
		Email:                   strings.TrimSpace(input.Email),
		Address:                 strings.TrimSpace(input.Address),
		PostalCode:              strings.TrimSpace(input.PostalCode),
		District:                strings.TrimSpace(input.District),
		PreferredPaymentChannel: channel,
		Courier:                 courier,
		Status:                  enums.DeliveryStatusPending,
		Amount:                  input.Amount,
		DeliveryCharge:          input.DeliveryCharge,
		TotalAmount:             input.Amount.Add(input.DeliveryCharge),
	}, nil
}
