package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"vitrine/internal/apperrors"
	"vitrine/internal/models"
	"vitrine/internal/repositories"

	"github.com/dgrijalva/jwt-go"
	"github.com/sirupsen/logrus"
)

// TokenConfig configures access token signing.
type TokenConfig struct {
	Secret    string
	ClientTTL time.Duration
	TeamTTL   time.Duration
}

// Claims is the identity carried by a valid access token.
type Claims struct {
	Subject string      `json:"sub"`
	Email   string      `json:"email"`
	Role    models.Role `json:"role"`
}

// LoginResult is returned by a successful login.
type LoginResult struct {
	AccessToken string        `json:"access_token"`
	User        interface{}   `json:"user"`
	ExpiresIn   time.Duration `json:"-"`
}

// AuthService handles business logic for authentication and authorization.
type AuthService struct {
	clients repositories.ClientRepository
	team    repositories.TeamMemberRepository
	secret  []byte
	cfg     TokenConfig
	logger  *logrus.Logger
}

// NewAuthService creates a new AuthService.
func NewAuthService(clients repositories.ClientRepository, team repositories.TeamMemberRepository, cfg TokenConfig, logger *logrus.Logger) *AuthService {
	return &AuthService{
		clients: clients,
		team:    team,
		secret:  []byte(cfg.Secret),
		cfg:     cfg,
		logger:  logger,
	}
}

func invalidCredentials() *apperrors.AppError {
	return apperrors.Unauthorized("AUTH_UNAUTHORIZED", "Invalid credentials")
}

// LoginClient authenticates a client and issues a short-lived token.
func (s *AuthService) LoginClient(ctx context.Context, email, password string) (*LoginResult, error) {
	client, err := s.clients.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, invalidCredentials()
		}
		return nil, apperrors.Internal("AUTH_FAILED_TO_LOGIN", "Failed to login", err)
	}
	if !client.IsActive || !checkPassword(client.Password, password) {
		return nil, invalidCredentials()
	}
	return s.issue(client.ID, client.Email, client.Role, s.cfg.ClientTTL, client)
}

// LoginTeamMember authenticates a team member and issues a token.
func (s *AuthService) LoginTeamMember(ctx context.Context, email, password string) (*LoginResult, error) {
	member, err := s.team.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, invalidCredentials()
		}
		return nil, apperrors.Internal("AUTH_FAILED_TO_LOGIN", "Failed to login", err)
	}
	if !member.IsActive || !checkPassword(member.Password, password) {
		return nil, invalidCredentials()
	}
	return s.issue(member.ID, member.Email, member.Role, s.cfg.TeamTTL, member)
}

func (s *AuthService) issue(id, email string, role models.Role, ttl time.Duration, user interface{}) (*LoginResult, error) {
	token, err := s.GenerateToken(id, email, role, ttl)
	if err != nil {
		return nil, apperrors.Internal("AUTH_FAILED_TO_LOGIN", "Failed to login", err)
	}
	s.logger.WithFields(logrus.Fields{"user_id": id, "role": role}).Info("user logged in")
	return &LoginResult{AccessToken: token, User: user, ExpiresIn: ttl}, nil
}

// GenerateToken signs an HS256 token carrying sub, email and role.
func (s *AuthService) GenerateToken(subject, email string, role models.Role, ttl time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   subject,
		"email": email,
		"role":  string(role),
		"exp":   now.Add(ttl).Unix(),
		"iat":   now.Unix(),
	})

	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return signed, nil
}

// ValidateToken parses and validates a token, returning its claims if valid.
func (s *AuthService) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		s.logger.WithError(err).Debug("token validation failed")
		return nil, apperrors.Unauthorized("AUTH_UNAUTHORIZED", "Invalid or expired token")
	}

	mapClaims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, apperrors.Unauthorized("AUTH_UNAUTHORIZED", "Invalid or expired token")
	}

	claims := &Claims{}
	claims.Subject, _ = mapClaims["sub"].(string)
	claims.Email, _ = mapClaims["email"].(string)
	role, _ := mapClaims["role"].(string)
	claims.Role = models.Role(role)
	if claims.Subject == "" || claims.Role == "" {
		return nil, apperrors.Unauthorized("AUTH_UNAUTHORIZED", "Invalid or expired token")
	}
	return claims, nil
}

// CurrentUser loads the account behind claims.
func (s *AuthService) CurrentUser(ctx context.Context, claims *Claims) (interface{}, error) {
	notAuthenticated := apperrors.Forbidden("AUTH_USER_NOT_AUTHENTICATED", "User not authenticated")
	if claims == nil {
		return nil, notAuthenticated
	}

	var (
		user interface{}
		err  error
	)
	switch {
	case claims.Role.IsTeam():
		user, err = s.team.GetByID(ctx, claims.Subject)
	case claims.Role == models.RoleClient:
		user, err = s.clients.GetByID(ctx, claims.Subject)
	default:
		return nil, notAuthenticated
	}
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, notAuthenticated
		}
		return nil, apperrors.Internal("AUTH_FAILED_TO_LOAD_USER", "Failed to load user", err)
	}
	return user, nil
}
