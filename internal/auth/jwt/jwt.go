package jwt

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken     = errors.New("invalid token")
	ErrExpiredToken     = errors.New("token has expired")
	ErrInvalidAlgorithm = errors.New("invalid signing algorithm")
	ErrEmptySecretKey   = errors.New("secret key cannot be empty")
	ErrWeakSecretKey    = errors.New("secret key must be at least 32 characters")
	ErrInvalidDuration  = errors.New("duration must be positive")
)

// Claims represents the JWT claims
type Claims struct {
	UserID   string `json:"user_id"`
	TenantID string `json:"tenant_id"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// Config represents the JWT configuration
type Config struct {
	SecretKey       string        `yaml:"secret_key"`
	AccessDuration  time.Duration `yaml:"access_duration"`
	RefreshDuration time.Duration `yaml:"refresh_duration"`
	Issuer          string        `yaml:"issuer"`
	AccessAudience  string        `yaml:"access_audience"`
	RefreshAudience string        `yaml:"refresh_audience"`
}

// Subject identifies who a token is issued for
type Subject struct {
	UserID   string
	TenantID string
	Email    string
	Role     string
}

// Pair is the result of a login
type Pair struct {
	AccessToken  string
	RefreshToken string
	ExpiresIn    int64
}

// Service represents the JWT service
type Service struct {
	config Config
	now    func() time.Time
}

// NewService creates a new JWT service
func NewService(config Config) (*Service, error) {
	if config.SecretKey == "" {
		return nil, ErrEmptySecretKey
	}
	if len(config.SecretKey) < 32 {
		return nil, ErrWeakSecretKey
	}
	if config.AccessDuration <= 0 || config.RefreshDuration <= 0 {
		return nil, ErrInvalidDuration
	}
	return &Service{
		config: config,
		now:    time.Now,
	}, nil
}

// AccessDuration returns the lifetime of access tokens
func (s *Service) AccessDuration() time.Duration {
	return s.config.AccessDuration
}

// GenerateAccessToken issues a short lived token for API calls
func (s *Service) GenerateAccessToken(sub Subject) (string, error) {
	return s.generate(sub, s.config.AccessAudience, s.config.AccessDuration)
}

// GenerateRefreshToken issues a long lived token accepted only by the refresh endpoint
func (s *Service) GenerateRefreshToken(sub Subject) (string, error) {
	return s.generate(sub, s.config.RefreshAudience, s.config.RefreshDuration)
}

// GeneratePair issues an access and a refresh token
func (s *Service) GeneratePair(sub Subject) (*Pair, error) {
	access, err := s.GenerateAccessToken(sub)
	if err != nil {
		return nil, err
	}
	refresh, err := s.GenerateRefreshToken(sub)
	if err != nil {
		return nil, err
	}
	return &Pair{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    int64(s.config.AccessDuration.Seconds()),
	}, nil
}

func (s *Service) generate(sub Subject, audience string, ttl time.Duration) (string, error) {
	now := s.now()
	claims := &Claims{
		UserID:   sub.UserID,
		TenantID: sub.TenantID,
		Email:    sub.Email,
		Role:     sub.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.config.Issuer,
			Subject:   sub.UserID,
			Audience:  jwt.ClaimStrings{audience},
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.config.SecretKey))
}

// ValidateAccessToken validates a token issued by GenerateAccessToken
func (s *Service) ValidateAccessToken(tokenString string) (*Claims, error) {
	return s.validate(tokenString, s.config.AccessAudience)
}

// ValidateRefreshToken validates a token issued by GenerateRefreshToken
func (s *Service) ValidateRefreshToken(tokenString string) (*Claims, error) {
	return s.validate(tokenString, s.config.RefreshAudience)
}

func (s *Service) validate(tokenString, audience string) (*Claims, error) {
	opts := []jwt.ParserOption{
		jwt.WithAudience(audience),
		jwt.WithTimeFunc(s.now),
	}
	if s.config.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(s.config.Issuer))
	}
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidAlgorithm
		}
		return []byte(s.config.SecretKey), nil
	}, opts...)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid && claims.UserID != "" && claims.TenantID != "" {
		return claims, nil
	}

	return nil, ErrInvalidToken
}
