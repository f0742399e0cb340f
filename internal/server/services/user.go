package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/passvault/internal/common"
	"github.com/dmitrijs2005/passvault/internal/logging"
	"github.com/dmitrijs2005/passvault/internal/server/auth"
	"github.com/dmitrijs2005/passvault/internal/server/models"
	"github.com/dmitrijs2005/passvault/internal/server/repositories/users"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// MinPasswordLength is the shortest account password Register accepts.
const MinPasswordLength = 8

// MaxPasswordLength is the bcrypt input limit in bytes.
const MaxPasswordLength = 72

// TokenIssuer mints session tokens; *auth.TokenService implements it.
type TokenIssuer interface {
	Issue(id auth.Identity) (string, error)
}

// UserService provides account operations:
//   - Register: create a user with a bcrypt password hash
//   - Login: verify credentials and mint a session token
type UserService struct {
	repo   users.Repository
	tokens TokenIssuer
	log    logging.Logger

	cost      int
	dummyOnce sync.Once
	dummyHash []byte
}

type UserOption func(*UserService)

// WithBcryptCost overrides bcrypt.DefaultCost.
func WithBcryptCost(cost int) UserOption {
	return func(s *UserService) { s.cost = cost }
}

func NewUserService(repo users.Repository, tokens TokenIssuer, log logging.Logger, opts ...UserOption) *UserService {
	s := &UserService{
		repo:   repo,
		tokens: tokens,
		log:    log.With("module", "users"),
		cost:   bcrypt.DefaultCost,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *UserService) Register(ctx context.Context, email, password string) (*models.User, error) {
	email = normalizeEmail(email)
	if !strings.Contains(email, "@") || len(password) < MinPasswordLength || len(password) > MaxPasswordLength {
		return nil, common.ErrorValidation
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, common.ErrorAlreadyExists
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	s.log.Info(ctx, "user registered", "user_id", user.ID)
	return user, nil
}

// Login checks the credentials and returns a fresh session token. Unknown
// emails and wrong passwords both yield common.ErrorUnauthorized and cost
// one bcrypt comparison each.
func (s *UserService) Login(ctx context.Context, email, password string) (string, auth.Identity, error) {
	email = normalizeEmail(email)

	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			_ = bcrypt.CompareHashAndPassword(s.dummy(), []byte(password))
			return "", auth.Identity{}, common.ErrorUnauthorized
		}
		return "", auth.Identity{}, fmt.Errorf("error loading user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(password)); err != nil {
		return "", auth.Identity{}, common.ErrorUnauthorized
	}

	id := auth.Identity{UserID: user.ID, Email: user.Email}
	token, err := s.tokens.Issue(id)
	if err != nil {
		return "", auth.Identity{}, fmt.Errorf("issue token: %w", err)
	}
	return token, id, nil
}

func (s *UserService) dummy() []byte {
	s.dummyOnce.Do(func() {
		s.dummyHash, _ = bcrypt.GenerateFromPassword(common.GenerateRandByteArray(16), s.cost)
	})
	return s.dummyHash
}
