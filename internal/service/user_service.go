package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/AlonaKolesneva/user-service-api/internal/auth"
	apperrors "github.com/AlonaKolesneva/user-service-api/internal/errors"
	"github.com/AlonaKolesneva/user-service-api/internal/metrics"
	"github.com/AlonaKolesneva/user-service-api/internal/model"
	"github.com/AlonaKolesneva/user-service-api/internal/notify"
	"github.com/AlonaKolesneva/user-service-api/internal/repository"
)

const userCacheTTL = 5 * time.Minute

// ProjectionCache is the slice of the cache client the service needs for
// read-through caching of public projections. *cache.Client satisfies it.
type ProjectionCache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// UserPage is the result of a paginated listing.
type UserPage struct {
	Users       []model.PublicUser `json:"users"`
	Total       int64              `json:"total"`
	CurrentPage int                `json:"currentPage"`
	TotalPages  int                `json:"totalPages"`
}

// UserService orchestrates the user lifecycle against the credential store,
// password hasher and token service.
type UserService interface {
	Register(ctx context.Context, email, password string) (token string, user *model.User, err error)
	Login(ctx context.Context, email, password string) (token string, user *model.User, err error)
	List(ctx context.Context, page, limit int) (*UserPage, error)
	GetByID(ctx context.Context, id uint) (*model.PublicUser, error)
	Update(ctx context.Context, id, requesterID uint, email, password string) (*model.User, error)
	Delete(ctx context.Context, id, requesterID uint) error
}

type userService struct {
	repo     repository.UserRepository
	hasher   *auth.PasswordHasher
	tokens   *auth.JWTService
	notifier notify.Notifier
	cache    ProjectionCache
	log      *zap.Logger
}

// NewUserService wires the user service with its collaborators.
func NewUserService(
	repo repository.UserRepository,
	hasher *auth.PasswordHasher,
	tokens *auth.JWTService,
	notifier notify.Notifier,
	cacheClient ProjectionCache,
	log *zap.Logger,
) UserService {
	return &userService{
		repo:     repo,
		hasher:   hasher,
		tokens:   tokens,
		notifier: notifier,
		cache:    cacheClient,
		log:      log,
	}
}

func (s *userService) cacheKey(id uint) string {
	return fmt.Sprintf("user:%d", id)
}

// Register creates a user with a hashed password and returns a fresh token.
// A racing register on the same email loses on the unique index and is
// reported as a duplicate, same as the pre-check.
func (s *userService) Register(ctx context.Context, email, password string) (string, *model.User, error) {
	existing, err := s.repo.FindByEmail(ctx, email)
	if err == nil && existing != nil {
		return "", nil, apperrors.ErrDuplicateEmail
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil, fmt.Errorf("check email existence: %w", err)
	}

	hashed, err := s.hasher.Hash(password)
	if err != nil {
		return "", nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		Email:        email,
		PasswordHash: hashed,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return "", nil, apperrors.ErrDuplicateEmail
		}
		return "", nil, fmt.Errorf("create user: %w", err)
	}

	metrics.UsersRegistered.Inc()

	// Fire-and-forget: a failing notifier never fails the registration.
	if err := s.notifier.UserCreated(ctx, notify.NewUserCreatedEvent(user.ID, user.Email)); err != nil {
		s.log.Warn("user created notification failed", zap.Uint("user_id", user.ID), zap.Error(err))
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return "", nil, fmt.Errorf("issue token: %w", err)
	}
	return token, user, nil
}

// Login authenticates by email and password and returns a fresh token. An
// unknown email and a wrong password fail identically; a store failure is not
// a credentials problem and propagates as an internal error.
func (s *userService) Login(ctx context.Context, email, password string) (string, *model.User, error) {
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil, apperrors.ErrInvalidCredentials
		}
		return "", nil, fmt.Errorf("find user: %w", err)
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		return "", nil, apperrors.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return "", nil, fmt.Errorf("issue token: %w", err)
	}
	return token, user, nil
}

// List returns one page of public projections in insertion order.
func (s *userService) List(ctx context.Context, page, limit int) (*UserPage, error) {
	offset := (page - 1) * limit
	users, err := s.repo.List(ctx, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	total, err := s.repo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count users: %w", err)
	}

	projections := make([]model.PublicUser, 0, len(users))
	for i := range users {
		projections = append(projections, users[i].Public())
	}

	return &UserPage{
		Users:       projections,
		Total:       total,
		CurrentPage: page,
		TotalPages:  int((total + int64(limit) - 1) / int64(limit)),
	}, nil
}

// GetByID returns the public projection, served from cache when possible.
func (s *userService) GetByID(ctx context.Context, id uint) (*model.PublicUser, error) {
	if data, _ := s.cache.Get(ctx, s.cacheKey(id)); data != nil {
		var cached model.PublicUser
		if err := json.Unmarshal(data, &cached); err == nil {
			return &cached, nil
		}
	}

	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	projection := user.Public()
	if payload, err := json.Marshal(projection); err == nil {
		_ = s.cache.Set(ctx, s.cacheKey(id), payload, userCacheTTL)
	}
	return &projection, nil
}

// Update applies the provided fields to the caller's own record. An empty
// field is left unchanged; a new password is re-hashed before persistence.
func (s *userService) Update(ctx context.Context, id, requesterID uint, email, password string) (*model.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	// Self-only mutation; no admin override exists.
	if user.ID != requesterID {
		return nil, apperrors.ErrForbidden
	}

	if email != "" {
		user.Email = email
	}
	if password != "" {
		hashed, err := s.hasher.Hash(password)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		user.PasswordHash = hashed
	}

	if err := s.repo.Update(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.ErrDuplicateEmail
		}
		return nil, fmt.Errorf("update user: %w", err)
	}

	_ = s.cache.Delete(ctx, s.cacheKey(id))
	return user, nil
}

// Delete permanently removes the caller's own record.
func (s *userService) Delete(ctx context.Context, id, requesterID uint) error {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrUserNotFound
		}
		return fmt.Errorf("find user: %w", err)
	}

	if user.ID != requesterID {
		return apperrors.ErrForbidden
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}

	_ = s.cache.Delete(ctx, s.cacheKey(id))
	return nil
}
