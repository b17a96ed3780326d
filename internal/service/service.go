package service

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/taxfree/card-wallet/internal/config"
	"github.com/taxfree/card-wallet/internal/mail"
	"github.com/taxfree/card-wallet/internal/models"
	"github.com/taxfree/card-wallet/internal/repository"
	"github.com/taxfree/card-wallet/internal/storage"
	"github.com/taxfree/card-wallet/internal/token"
	"golang.org/x/crypto/bcrypt"
)

// emailPattern accepts the usual local@domain.tld shape.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Service handles business logic
type Service struct {
	repo     *repository.Repository
	registry *storage.Registry
	tokens   *token.Service
	mailer   *mail.Sender
	log      *logrus.Logger
	config   *config.Config
}

// NewService initializes a new service
func NewService(repo *repository.Repository, registry *storage.Registry, tokens *token.Service, mailer *mail.Sender, log *logrus.Logger, cfg *config.Config) *Service {
	return &Service{
		repo:     repo,
		registry: registry,
		tokens:   tokens,
		mailer:   mailer,
		log:      log,
		config:   cfg,
	}
}

// Register creates a new user with a hashed password and returns the user
// together with a freshly issued session token.
func (s *Service) Register(name, email, password string) (*models.User, string, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)

	if name == "" || email == "" || password == "" {
		return nil, "", fmt.Errorf("%w: name, email and password are required", models.ErrValidation)
	}
	if !emailPattern.MatchString(email) {
		return nil, "", fmt.Errorf("%w: invalid email format", models.ErrValidation)
	}
	if len(password) < 6 {
		return nil, "", fmt.Errorf("%w: password must be at least 6 characters", models.ErrValidation)
	}

	// Cheap duplicate check first; the unique constraint on email remains
	// the arbiter when two registrations race.
	if _, err := s.repo.FindUserByEmail(email); err == nil {
		return nil, "", models.ErrDuplicateEmail
	} else if !errors.Is(err, models.ErrNotFound) {
		return nil, "", err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), s.config.BcryptCost)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hashed),
	}
	if err := s.repo.CreateUser(user); err != nil {
		return nil, "", err
	}

	tok, err := s.tokens.Issue(user.ID, user.Email)
	if err != nil {
		return nil, "", fmt.Errorf("failed to issue token: %w", err)
	}

	if s.mailer != nil && s.mailer.Enabled() {
		go func(to, name string) {
			if err := s.mailer.SendWelcome(to, name); err != nil {
				s.log.WithError(err).Warn("welcome email not sent")
			}
		}(user.Email, user.Name)
	}

	s.log.Infof("User registered: %s", user.Email)
	return user, tok, nil
}

// Login authenticates a user and returns the user with a session token.
// Unknown email, an account without a password, and a wrong password all
// yield the same ErrInvalidCredentials.
func (s *Service) Login(email, password string) (*models.User, string, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return nil, "", fmt.Errorf("%w: email and password are required", models.ErrValidation)
	}

	user, err := s.repo.FindUserByEmail(email)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, "", models.ErrInvalidCredentials
		}
		return nil, "", err
	}

	if user.PasswordHash == "" {
		return nil, "", models.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", models.ErrInvalidCredentials
	}

	tok, err := s.tokens.Issue(user.ID, user.Email)
	if err != nil {
		return nil, "", fmt.Errorf("failed to issue token: %w", err)
	}

	s.log.Infof("User logged in: %s", user.Email)
	return user, tok, nil
}

// CurrentUser returns the account behind an authenticated identity.
// ErrNotFound means the account vanished after the token was issued.
func (s *Service) CurrentUser(userID int64) (*models.User, error) {
	return s.repo.FindUserByID(userID)
}
