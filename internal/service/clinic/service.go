package clinic

import (
	"context"

	"github.com/google/uuid"

	"github.com/meddesk/clinic-api/internal/model"
	"github.com/meddesk/clinic-api/internal/repository"
	"github.com/meddesk/clinic-api/pkg/apperr"
	"github.com/meddesk/clinic-api/pkg/logger"
	"github.com/meddesk/clinic-api/pkg/security"
)

type Service struct {
	repo   repository.ClinicRepository
	hasher security.PasswordHasher
	logger *logger.Logger
}

func NewService(repo repository.ClinicRepository, hasher security.PasswordHasher, logger *logger.Logger) *Service {
	return &Service{repo: repo, hasher: hasher, logger: logger}
}

func (s *Service) Create(ctx context.Context, req *model.CreateClinicRequest) (*model.Clinic, error) {
	clinic := &model.Clinic{
		Name:    req.Name,
		Address: req.Address,
		Phone:   req.Phone,
		Status:  "active",
	}
	if err := s.repo.Create(ctx, clinic); err != nil {
		return nil, err
	}
	s.logger.Info("clinic created", "clinic_id", clinic.ID.String(), "name", clinic.Name)
	return clinic, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*model.Clinic, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]*model.Clinic, error) {
	return s.repo.List(ctx)
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, req *model.UpdateClinicRequest) (*model.Clinic, error) {
	clinic, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		clinic.Name = *req.Name
	}
	if req.Address != nil {
		clinic.Address = *req.Address
	}
	if req.Phone != nil {
		clinic.Phone = *req.Phone
	}
	if req.Status != nil {
		clinic.Status = *req.Status
	}
	if err := s.repo.Update(ctx, clinic); err != nil {
		return nil, err
	}
	return clinic, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) CreateStaff(ctx context.Context, clinicID uuid.UUID, req *model.CreateStaffRequest) (*model.ClinicStaff, error) {
	if _, err := s.repo.Get(ctx, clinicID); err != nil {
		return nil, err
	}
	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, apperr.Validation("password does not meet requirements", err)
	}

	staff := &model.ClinicStaff{
		ClinicID:     clinicID,
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hash,
		Role:         req.Role,
		Specialty:    req.Specialty,
		Status:       "active",
	}
	if err := s.repo.CreateStaff(ctx, staff); err != nil {
		return nil, err
	}
	s.logger.Info("staff created", "staff_id", staff.ID.String(), "clinic_id", clinicID.String())
	return staff, nil
}

func (s *Service) GetStaff(ctx context.Context, id uuid.UUID) (*model.ClinicStaff, error) {
	return s.repo.GetStaff(ctx, id)
}

func (s *Service) ListStaff(ctx context.Context, clinicID uuid.UUID) ([]*model.ClinicStaff, error) {
	return s.repo.ListStaff(ctx, clinicID)
}

func (s *Service) RemoveStaff(ctx context.Context, id uuid.UUID) error {
	return s.repo.RemoveStaff(ctx, id)
}
