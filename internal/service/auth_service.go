package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Freeeeeet/tutoring_scheduler/internal/model"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const tokenIssuer = "tutoring-scheduler"

// AdminClaims содержимое токена администратора
type AdminClaims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// AccessToken выданный при входе токен
type AccessToken struct {
	Value     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

type AuthService struct {
	adminRepo  AdminStore
	revoked    TokenStore
	secret     []byte
	ttl        time.Duration
	bcryptCost int
	logger     *zap.Logger
}

func NewAuthService(adminRepo AdminStore, revoked TokenStore, secret string, ttl time.Duration, logger *zap.Logger) *AuthService {
	return &AuthService{
		adminRepo:  adminRepo,
		revoked:    revoked,
		secret:     []byte(secret),
		ttl:        ttl,
		bcryptCost: bcrypt.DefaultCost,
		logger:     logger,
	}
}

// Login проверяет пароль и выдаёт подписанный токен
func (s *AuthService) Login(ctx context.Context, username, password string) (*AccessToken, error) {
	admin, err := s.adminRepo.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		return nil, fmt.Errorf("get admin: %w", err)
	}

	if admin == nil {
		s.logger.Warn("Login for unknown admin", zap.String("username", username))
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(password)); err != nil {
		s.logger.Warn("Wrong admin password", zap.String("username", username))
		return nil, ErrInvalidCredentials
	}

	now := time.Now()
	expiresAt := now.Add(s.ttl)
	claims := AdminClaims{
		Username: admin.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokenIssuer,
			Subject:   fmt.Sprintf("%d", admin.ID),
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}

	s.logger.Info("Admin logged in",
		zap.String("username", admin.Username),
		zap.String("token_id", claims.ID),
	)

	return &AccessToken{Value: signed, ExpiresAt: expiresAt}, nil
}

// Verify проверяет подпись, срок действия и отзыв токена
func (s *AuthService) Verify(ctx context.Context, tokenString string) (*AdminClaims, error) {
	claims := &AdminClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	if claims.Issuer != tokenIssuer || claims.ID == "" {
		return nil, ErrInvalidToken
	}

	revoked, err := s.revoked.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, fmt.Errorf("check revocation: %w", err)
	}
	if revoked {
		return nil, ErrTokenRevoked
	}

	return claims, nil
}

// Logout отзывает токен до истечения его срока
func (s *AuthService) Logout(ctx context.Context, claims *AdminClaims) error {
	until := time.Now().Add(s.ttl)
	if claims.ExpiresAt != nil {
		until = claims.ExpiresAt.Time
	}

	if err := s.revoked.Revoke(ctx, claims.ID, until); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}

	s.logger.Info("Admin logged out",
		zap.String("username", claims.Username),
		zap.String("token_id", claims.ID),
	)

	return nil
}

// SetPassword создаёт администратора или меняет ему пароль
func (s *AuthService) SetPassword(ctx context.Context, username, password string) error {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	admin := &model.Admin{Username: username, PasswordHash: string(hash)}
	if err := s.adminRepo.Upsert(ctx, admin); err != nil {
		return fmt.Errorf("save admin: %w", err)
	}

	s.logger.Info("Admin password set", zap.String("username", username))
	return nil
}

// EnsureAdmin создаёт администратора из конфигурации, если его ещё нет.
// Пароль существующего администратора не перезаписывается.
func (s *AuthService) EnsureAdmin(ctx context.Context, username, password string) error {
	existing, err := s.adminRepo.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		return fmt.Errorf("get admin: %w", err)
	}
	if existing != nil {
		return nil
	}
	return s.SetPassword(ctx, username, password)
}
