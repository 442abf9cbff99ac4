// Package users implements account registration, password login and
// refresh-token rotation for the auth API.
package users

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/authdash/internal/common"
	"github.com/dmitrijs2005/authdash/internal/server/auth"
	"github.com/dmitrijs2005/authdash/internal/server/config"
	"github.com/dmitrijs2005/authdash/internal/server/models"
	"github.com/dmitrijs2005/authdash/internal/server/repositories/refreshtokens"
	"github.com/dmitrijs2005/authdash/internal/server/repositories/repomanager"
	usersrepo "github.com/dmitrijs2005/authdash/internal/server/repositories/users"
	"golang.org/x/crypto/bcrypt"
)

const (
	MinPasswordLength = 6
	DefaultRole       = "user"
	DemoName          = "Demo User"
)

// TokenPair bundles a short-lived access token and a long-lived refresh token.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// Session is what a successful login, registration or refresh returns.
type Session struct {
	TokenPair
	User *models.User
}

type Service struct {
	repos           repomanager.RepositoryManager
	jwtSecret       []byte
	accessTokenTTL  time.Duration
	refreshTokenTTL time.Duration
	hashCost        int
	now             func() time.Time

	dummyOnce sync.Once
	dummyHash []byte
}

func NewService(m repomanager.RepositoryManager, cfg *config.Config) *Service {
	return &Service{
		repos:           m,
		jwtSecret:       []byte(cfg.SecretKey),
		accessTokenTTL:  cfg.AccessTokenTTL,
		refreshTokenTTL: cfg.RefreshTokenTTL,
		hashCost:        bcrypt.DefaultCost,
		now:             time.Now,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validate(email, password string) error {
	if addr, err := mail.ParseAddress(email); err != nil || addr.Address != email {
		return fmt.Errorf("%w: invalid email address", common.ErrorValidation)
	}
	if len(password) < MinPasswordLength {
		return fmt.Errorf("%w: password must be at least %d characters", common.ErrorValidation, MinPasswordLength)
	}
	return nil
}

// Register creates an account and signs it in. A taken email yields
// common.ErrorAlreadyExists, bad input common.ErrorValidation.
func (s *Service) Register(ctx context.Context, email, password, name string) (*Session, error) {
	email = normalizeEmail(email)
	if err := validate(email, password); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.hashCost)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	user := &models.User{
		Email:        email,
		Name:         strings.TrimSpace(name),
		Role:         DefaultRole,
		PasswordHash: hash,
	}

	user, err = s.repos.Users().Create(ctx, user)
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, err
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	return s.issue(ctx, s.repos.RefreshTokens(), user)
}

// Login checks the password and returns a fresh session. Unknown emails
// and wrong passwords both yield common.ErrorUnauthorized.
func (s *Service) Login(ctx context.Context, email, password string) (*Session, error) {
	user, err := s.repos.Users().GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			// spend the same time as a real comparison
			_ = bcrypt.CompareHashAndPassword(s.getDummyHash(), []byte(password))
			return nil, common.ErrorUnauthorized
		}
		return nil, common.ErrorInternal
	}

	if err := bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(password)); err != nil {
		return nil, common.ErrorUnauthorized
	}

	return s.issue(ctx, s.repos.RefreshTokens(), user)
}

// Refresh redeems refreshToken and returns a new pair. The token is
// deleted even when it turns out to be expired.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*Session, error) {
	var (
		session *Session
		expired bool
	)

	err := s.repos.InTx(ctx, func(ctx context.Context, users usersrepo.Repository, tokens refreshtokens.Repository) error {
		rt, err := tokens.Consume(ctx, refreshToken)
		if err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				return common.ErrorUnauthorized
			}
			return fmt.Errorf("error consuming refresh token: %w", err)
		}

		if !rt.ExpiresAt.After(s.now()) {
			expired = true
			return nil
		}

		user, err := users.GetByID(ctx, rt.UserID)
		if err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				return common.ErrorUnauthorized
			}
			return fmt.Errorf("error loading user: %w", err)
		}

		session, err = s.issue(ctx, tokens, user)
		return err
	})
	if err != nil {
		return nil, err
	}
	if expired {
		return nil, common.ErrRefreshTokenExpired
	}

	return session, nil
}

// Me returns the account behind userID.
func (s *Service) Me(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.repos.Users().GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		return nil, fmt.Errorf("error loading user: %w", err)
	}
	return user, nil
}

// Authenticate verifies an access token.
func (s *Service) Authenticate(token string) (*auth.Claims, error) {
	return auth.ParseToken(token, s.jwtSecret)
}

// SeedDemo creates the demo account unless it already exists.
func (s *Service) SeedDemo(ctx context.Context, email, password string) error {
	_, err := s.Register(ctx, email, password, DemoName)
	if err != nil && !errors.Is(err, common.ErrorAlreadyExists) {
		return fmt.Errorf("error seeding demo user: %w", err)
	}
	return nil
}

func (s *Service) getDummyHash() []byte {
	s.dummyOnce.Do(func() {
		s.dummyHash, _ = bcrypt.GenerateFromPassword(common.GenerateRandByteArray(16), s.hashCost)
	})
	return s.dummyHash
}

func (s *Service) issue(ctx context.Context, tokens refreshtokens.Repository, user *models.User) (*Session, error) {
	access, err := auth.GenerateToken(user.Public(), s.jwtSecret, s.accessTokenTTL)
	if err != nil {
		return nil, common.ErrorInternal
	}

	refresh, err := common.MakeRandHexString(32)
	if err != nil {
		return nil, common.ErrorInternal
	}

	if err := tokens.Create(ctx, user.ID, refresh, s.now().Add(s.refreshTokenTTL)); err != nil {
		return nil, common.ErrorInternal
	}

	return &Session{TokenPair: TokenPair{AccessToken: access, RefreshToken: refresh}, User: user}, nil
}
