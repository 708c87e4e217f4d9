package auth

import (
	"context"

	"github.com/meddesk/clinic-api/internal/model"
	"github.com/meddesk/clinic-api/internal/repository"
	"github.com/meddesk/clinic-api/pkg/apperr"
	"github.com/meddesk/clinic-api/pkg/auth"
	"github.com/meddesk/clinic-api/pkg/logger"
	"github.com/meddesk/clinic-api/pkg/security"
)

type Service struct {
	repo   repository.ClinicRepository
	hasher security.PasswordHasher
	jwt    *auth.JWTService
	logger *logger.Logger
}

func NewService(repo repository.ClinicRepository, hasher security.PasswordHasher, jwt *auth.JWTService, logger *logger.Logger) *Service {
	return &Service{repo: repo, hasher: hasher, jwt: jwt, logger: logger}
}

// Login authenticates a staff member by email and password. Unknown emails
// and wrong passwords return the same error so the endpoint does not leak
// which accounts exist.
func (s *Service) Login(ctx context.Context, req *model.LoginRequest) (*model.LoginResponse, error) {
	staff, err := s.repo.GetStaffByEmail(ctx, req.Email)
	if err != nil {
		if apperr.Is(err, apperr.CodeNotFound) {
			return nil, apperr.Validation("invalid credentials", nil)
		}
		return nil, err
	}

	if err := s.hasher.Compare(staff.PasswordHash, req.Password); err != nil {
		s.logger.Warn("failed login attempt", "email", req.Email)
		return nil, apperr.Validation("invalid credentials", nil)
	}

	token, err := s.jwt.GenerateAccessToken(staff.ID, staff.ClinicID, staff.Email, staff.Role)
	if err != nil {
		return nil, apperr.Storage(err)
	}

	return &model.LoginResponse{AccessToken: token, Staff: staff}, nil
}
