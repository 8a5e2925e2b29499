package services

import (
	"context"

	"github.com/go-playground/validator/v10"
	log "github.com/sirupsen/logrus"

	"shopcatalog/internal/apperrors"
	"shopcatalog/internal/models"
	"shopcatalog/internal/permissions"
	"shopcatalog/internal/repositories"
	"shopcatalog/internal/validation"
)

// ProfilePatch is a partial update of a user. Nil fields are left unchanged.
type ProfilePatch struct {
	FirstName *string      `json:"first_name" validate:"omitnil,min=1,max=30"`
	LastName  *string      `json:"last_name" validate:"omitnil,min=1,max=40"`
	Email     *string      `json:"email" validate:"omitnil,email,max=254"`
	Password  *string      `json:"password" validate:"omitnil,min=1,max=72"`
	Role      *models.Role `json:"role"`
	IsActive  *bool        `json:"is_active"`
	Avatar    *string      `json:"avatar" validate:"omitnil,max=255"`
}

// ProfileService reads and edits user profiles.
type ProfileService struct {
	userRepo   repositories.UserRepository
	bcryptCost int
	validate   *validator.Validate
}

// NewProfileService creates a new ProfileService.
func NewProfileService(userRepo repositories.UserRepository, bcryptCost int) *ProfileService {
	return &ProfileService{
		userRepo:   userRepo,
		bcryptCost: bcryptCost,
		validate:   validation.New(),
	}
}

// ListProfiles returns every user.
func (s *ProfileService) ListProfiles(ctx context.Context) ([]models.User, error) {
	return s.userRepo.List(ctx)
}

// AuthorizeProfile reports whether caller may address the profile with the
// given email. It does not touch storage, so a refusal says nothing about
// whether the account exists.
func (s *ProfileService) AuthorizeProfile(caller *models.User, email string) error {
	if permissions.IsSuperUser(caller) {
		return nil
	}
	if !permissions.IsAuthenticated(caller) || NormalizeEmail(caller.Email) != NormalizeEmail(email) {
		return apperrors.ErrForbidden
	}
	return nil
}

// GetProfile returns the user with the given email if caller may see it.
func (s *ProfileService) GetProfile(ctx context.Context, caller *models.User, email string) (*models.User, error) {
	if err := s.AuthorizeProfile(caller, email); err != nil {
		return nil, err
	}
	return s.userRepo.GetByEmail(ctx, NormalizeEmail(email))
}

// UpdateProfile applies patch to the user with the given email.
func (s *ProfileService) UpdateProfile(ctx context.Context, caller *models.User, email string, patch ProfilePatch) (*models.User, error) {
	if err := s.AuthorizeProfile(caller, email); err != nil {
		return nil, err
	}
	user, err := s.userRepo.GetByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		return nil, err
	}
	return s.update(ctx, caller, user, patch)
}

// UpdateOwnProfile applies patch to the caller's own profile.
func (s *ProfileService) UpdateOwnProfile(ctx context.Context, caller *models.User, patch ProfilePatch) (*models.User, error) {
	if !permissions.IsAuthenticated(caller) {
		return nil, apperrors.ErrUnauthorized
	}
	user, err := s.userRepo.GetByID(ctx, caller.ID)
	if err != nil {
		return nil, err
	}
	return s.update(ctx, caller, user, patch)
}

func (s *ProfileService) update(ctx context.Context, caller, user *models.User, patch ProfilePatch) (*models.User, error) {
	if !permissions.CanManageProfile(caller, user) {
		return nil, apperrors.ErrForbidden
	}
	// Only a superuser may change account type or activation.
	if !permissions.IsSuperUser(caller) && (patch.Role != nil || patch.IsActive != nil) {
		return nil, apperrors.ErrForbidden
	}

	if patch.Email != nil {
		normalized := NormalizeEmail(*patch.Email)
		patch.Email = &normalized
	}
	if err := validation.Struct(s.validate, patch); err != nil {
		return nil, err
	}

	if patch.Email != nil && *patch.Email != user.Email {
		other, err := s.userRepo.GetByEmail(ctx, *patch.Email)
		if err == nil && other.ID != user.ID {
			return nil, apperrors.FieldInvalid("email", "already registered")
		}
		if err != nil && !isNotFound(err) {
			return nil, err
		}
		user.Email = *patch.Email
	}
	if patch.FirstName != nil {
		user.FirstName = *patch.FirstName
	}
	if patch.LastName != nil {
		user.LastName = *patch.LastName
	}
	if patch.Avatar != nil {
		user.Avatar = *patch.Avatar
	}
	if patch.Role != nil {
		if !patch.Role.Valid() {
			return nil, apperrors.FieldInvalid("role", "is invalid")
		}
		user.Role = *patch.Role
	}
	if patch.IsActive != nil {
		user.IsActive = *patch.IsActive
	}
	if patch.Password != nil {
		hashed, err := hashPassword(*patch.Password, s.bcryptCost)
		if err != nil {
			return nil, err
		}
		user.Password = hashed
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	log.WithFields(log.Fields{"user_id": user.ID, "actor_id": caller.ID}).Info("profile updated")
	return user, nil
}

// DeleteProfile removes the user with the given email.
func (s *ProfileService) DeleteProfile(ctx context.Context, email string) error {
	user, err := s.userRepo.GetByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		return err
	}
	return s.userRepo.Delete(ctx, user.ID)
}
