package services

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/swiftrail/train-reservation-backend/internal/config"
	"github.com/swiftrail/train-reservation-backend/pkg/jwt"
	"golang.org/x/crypto/bcrypt"
)

// AuthService handles admin authentication for the reporting endpoints.
// There is a single admin identity, configured by environment.
type AuthService struct {
	cfg        config.AdminConfig
	jwtService *jwt.Service
	expiry     time.Duration
	logger     *logrus.Logger
}

// LoginResponse carries the issued admin token
type LoginResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int64  `json:"expires_in"`
}

// NewAuthService creates a new auth service
func NewAuthService(cfg config.AdminConfig, jwtService *jwt.Service, expiry time.Duration, logger *logrus.Logger) *AuthService {
	return &AuthService{
		cfg:        cfg,
		jwtService: jwtService,
		expiry:     expiry,
		logger:     logger,
	}
}

// Login authenticates the admin user and returns an access token
func (s *AuthService) Login(username, password string) (*LoginResponse, error) {
	if username != s.cfg.Username {
		return nil, fmt.Errorf("invalid username or password")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(s.cfg.PasswordHash), []byte(password)); err != nil {
		return nil, fmt.Errorf("invalid username or password")
	}

	accessToken, err := s.jwtService.GenerateAccessToken(username)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	s.logger.WithField("username", username).Info("Admin login")

	return &LoginResponse{
		AccessToken: accessToken,
		ExpiresIn:   int64(s.expiry.Seconds()),
	}, nil
}
