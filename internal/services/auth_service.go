package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"shopcatalog/internal/apperrors"
	"shopcatalog/internal/models"
	"shopcatalog/internal/repositories"
	"shopcatalog/internal/validation"
)

// ErrInvalidCredentials is returned by Login for an unknown email, a wrong
// password or an inactive account.
var ErrInvalidCredentials = fmt.Errorf("invalid credentials: %w", apperrors.ErrUnauthorized)

// AuthConfig carries the token and hashing settings of an AuthService.
type AuthConfig struct {
	JWTSecret  string
	TokenTTL   time.Duration
	BcryptCost int
}

// RegisterInput is the payload of a signup.
type RegisterInput struct {
	FirstName string       `json:"first_name" validate:"required,max=30"`
	LastName  string       `json:"last_name" validate:"required,max=40"`
	Email     string       `json:"email" validate:"required,email,max=254"`
	Password  string       `json:"password" validate:"max=72"`
	Role      *models.Role `json:"role"`
	IsActive  *bool        `json:"is_active"`
	Avatar    string       `json:"avatar" validate:"max=255"`
	SuperUser bool         `json:"superuser"`
}

// AuthService handles registration, login and token verification.
type AuthService struct {
	userRepo   repositories.UserRepository
	jwtSecret  []byte
	tokenTTL   time.Duration
	bcryptCost int
	validate   *validator.Validate
	notifier   *Notifier
}

// NewAuthService creates a new AuthService. notifier may be nil.
func NewAuthService(userRepo repositories.UserRepository, cfg AuthConfig, notifier *Notifier) *AuthService {
	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = 24 * time.Hour
	}
	if cfg.BcryptCost == 0 {
		cfg.BcryptCost = bcrypt.DefaultCost
	}
	return &AuthService{
		userRepo:   userRepo,
		jwtSecret:  []byte(cfg.JWTSecret),
		tokenTTL:   cfg.TokenTTL,
		bcryptCost: cfg.BcryptCost,
		validate:   validation.New(),
		notifier:   notifier,
	}
}

// RegisterUser validates the input, hashes the password and stores the user.
// Superusers can only be created with in.SuperUser set; that path also
// requires a password.
func (s *AuthService) RegisterUser(ctx context.Context, in RegisterInput, actor *models.User) (*models.User, error) {
	in.Email = NormalizeEmail(in.Email)
	if err := validation.Struct(s.validate, in); err != nil {
		return nil, err
	}

	role, err := registrationRole(in)
	if err != nil {
		return nil, err
	}

	existing, err := s.userRepo.GetByEmail(ctx, in.Email)
	if err == nil && existing != nil {
		return nil, apperrors.FieldInvalid("email", "already registered")
	}
	if err != nil && !isNotFound(err) {
		return nil, err
	}

	user := &models.User{
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Email:     in.Email,
		Role:      role,
		IsActive:  true,
		Avatar:    in.Avatar,
	}
	if in.IsActive != nil {
		user.IsActive = *in.IsActive
	}
	if user.Avatar == "" {
		user.Avatar = models.DefaultAvatar
	}
	if in.Password != "" {
		hashed, err := hashPassword(in.Password, s.bcryptCost)
		if err != nil {
			return nil, err
		}
		user.Password = hashed
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to register user: %w", err)
	}

	log.WithFields(log.Fields{"user_id": user.ID, "role": user.Role.String()}).Info("user registered")
	s.notifier.Notify(models.EventUserRegistered, user.ID, actor)
	return user, nil
}

// CreateSuperUser registers a user through the superuser path.
func (s *AuthService) CreateSuperUser(ctx context.Context, in RegisterInput) (*models.User, error) {
	in.SuperUser = true
	return s.RegisterUser(ctx, in, nil)
}

func registrationRole(in RegisterInput) (models.Role, error) {
	if in.SuperUser {
		if in.Role != nil && *in.Role != models.RoleSuperUser {
			return 0, apperrors.FieldInvalid("role", "a superuser must have the SUPERUSER role")
		}
		if in.Password == "" {
			return 0, apperrors.FieldInvalid("password", "is required")
		}
		return models.RoleSuperUser, nil
	}
	if in.Role == nil {
		return models.RoleResponsible, nil
	}
	switch *in.Role {
	case models.RoleResponsible:
		return models.RoleResponsible, nil
	case models.RoleSuperUser:
		return 0, apperrors.FieldInvalid("role", "the SUPERUSER role requires the superuser flag")
	}
	return 0, apperrors.FieldInvalid("role", "is invalid")
}

// LoginUser authenticates a user and returns a signed JWT.
func (s *AuthService) LoginUser(ctx context.Context, email, password string) (string, error) {
	user, err := s.userRepo.GetByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if isNotFound(err) {
			return "", ErrInvalidCredentials
		}
		return "", err
	}
	if !user.IsActive || user.Password == "" {
		return "", ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}

	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": user.ID,
		"email":   user.Email,
		"role":    user.Role.String(),
		"jti":     uuid.NewString(),
		"exp":     now.Add(s.tokenTTL).Unix(),
		"iat":     now.Unix(),
	})

	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return tokenString, nil
}

// ValidateToken parses and validates a JWT token, returning the claims if valid.
func (s *AuthService) ValidateToken(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		log.WithError(err).Debug("token validation failed")
		return nil, fmt.Errorf("invalid token: %v: %w", err, apperrors.ErrUnauthorized)
	}

	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, fmt.Errorf("invalid token: %w", apperrors.ErrUnauthorized)
}

// Authenticate resolves a token to the user it was issued for. Whether the
// user is still active is left to the caller.
func (s *AuthService) Authenticate(ctx context.Context, tokenString string) (*models.User, error) {
	claims, err := s.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}
	rawID, ok := claims["user_id"].(float64)
	if !ok || rawID <= 0 {
		return nil, fmt.Errorf("token carries no user: %w", apperrors.ErrUnauthorized)
	}

	user, err := s.userRepo.GetByID(ctx, uint(rawID))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("token user no longer exists: %w", apperrors.ErrUnauthorized)
		}
		return nil, err
	}
	return user, nil
}

func hashPassword(password string, cost int) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashed), nil
}
