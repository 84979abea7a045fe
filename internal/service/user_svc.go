package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/skillhive/skillhive-go/internal/model"
	"github.com/skillhive/skillhive-go/internal/repository"
	"github.com/skillhive/skillhive-go/pkg/hash"
)

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// UserRepository is the persistence the user service needs.
type UserRepository interface {
	Create(ctx context.Context, u *model.User) error
	FindByUserID(ctx context.Context, userID string) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	UpdateUsername(ctx context.Context, userID, username string) error
	UpdatePasswordHash(ctx context.Context, userID, passwordHash string) error
}

type UserService struct {
	repo UserRepository
	now  func() time.Time
	cost int

	// decoy is compared against when the email is unknown so both login
	// failures take the same time.
	decoyOnce sync.Once
	decoy     string
}

// UserOption configures a UserService.
type UserOption func(*UserService)

// WithPasswordCost sets the bcrypt cost (hash.DefaultPasswordCost if unset).
func WithPasswordCost(cost int) UserOption {
	return func(s *UserService) { s.cost = cost }
}

func NewUserService(repo UserRepository, opts ...UserOption) *UserService {
	s := &UserService{repo: repo, now: time.Now, cost: hash.DefaultPasswordCost}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SignUp creates an account. Inputs must already be validated.
func (s *UserService) SignUp(ctx context.Context, req model.SignUpRequest) (*model.UserResponse, error) {
	passwordHash, err := hash.HashPassword(req.Password, s.cost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	username := req.Username
	if username == "" {
		username, _, _ = strings.Cut(req.Email, "@")
	}
	stack := req.Stack
	if stack == nil {
		stack = []string{}
	}

	u := &model.User{
		UserID:       uuid.NewString(),
		Email:        req.Email,
		Username:     username,
		PasswordHash: passwordHash,
		Stack:        stack,
	}
	if err := s.repo.Create(ctx, u); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}

	resp := s.toResponse(u)
	return &resp, nil
}

// Login checks the credentials. Unknown email and wrong password both yield
// ErrInvalidCredentials.
func (s *UserService) Login(ctx context.Context, req model.LoginRequest) (*model.UserResponse, error) {
	u, err := s.repo.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			hash.VerifyPassword(req.Password, s.decoyHash())
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !hash.VerifyPassword(req.Password, u.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	resp := s.toResponse(u)
	return &resp, nil
}

// Lookup returns the user response for a given user ID.
func (s *UserService) Lookup(ctx context.Context, userID string) (*model.UserResponse, error) {
	u, err := s.repo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	resp := s.toResponse(u)
	return &resp, nil
}

// ChangeUsername renames the user. The username must already be validated
// and non-empty.
func (s *UserService) ChangeUsername(ctx context.Context, userID, username string) (*model.UserResponse, error) {
	if err := s.repo.UpdateUsername(ctx, userID, username); err != nil {
		return nil, err
	}
	return s.Lookup(ctx, userID)
}

// ChangePassword replaces the password after checking the current one.
// A wrong current password yields ErrInvalidCredentials.
func (s *UserService) ChangePassword(ctx context.Context, userID, current, next string) error {
	u, err := s.repo.FindByUserID(ctx, userID)
	if err != nil {
		return err
	}
	if !hash.VerifyPassword(current, u.PasswordHash) {
		return ErrInvalidCredentials
	}

	passwordHash, err := hash.HashPassword(next, s.cost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	return s.repo.UpdatePasswordHash(ctx, userID, passwordHash)
}

func (s *UserService) decoyHash() string {
	s.decoyOnce.Do(func() {
		s.decoy, _ = hash.HashPassword("decoy-password", s.cost)
	})
	return s.decoy
}

func (s *UserService) toResponse(u *model.User) model.UserResponse {
	return model.UserResponse{
		UserID:      u.UserID,
		Email:       u.Email,
		Username:    u.Username,
		Stack:       u.Stack,
		JoinDate:    u.CreatedAt.Format("January 2006"),
		YearsActive: YearsActive(u.CreatedAt, s.now()),
	}
}

// YearsActive counts started years since joined, so a brand-new account is
// active for one year.
func YearsActive(joined, now time.Time) int {
	if now.Before(joined) {
		return 1
	}
	years := now.Year() - joined.Year()
	if now.YearDay() < joined.YearDay() {
		years--
	}
	return years + 1
}
