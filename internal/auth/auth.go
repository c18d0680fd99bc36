// Package auth registers users and issues the bearer tokens that protect the
// catalog endpoints. Passwords are stored as bcrypt hashes and tokens are
// HS256 JWTs carrying the user id.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/garnizeh/seekaclimb/internal/apperr"
	"github.com/garnizeh/seekaclimb/internal/db"
	"github.com/garnizeh/seekaclimb/pkg/models"
	"github.com/garnizeh/seekaclimb/pkg/repository"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// maxPasswordBytes is the longest input bcrypt accepts.
const maxPasswordBytes = 72

var (
	// ErrInvalidCredentials is returned for an unknown user and for a wrong
	// password alike.
	ErrInvalidCredentials = apperr.New(apperr.KindUnauthorized, "invalid credentials")
	ErrUsernameTaken      = apperr.New(apperr.KindConflict, "username already taken")
	ErrInvalidToken       = apperr.New(apperr.KindUnauthorized, "invalid or expired token")
)

// Claims is the JWT payload. Subject holds the same id as UserID.
type Claims struct {
	UserID int64 `json:"user_id"`
	jwt.RegisteredClaims
}

// Session is the result of a successful login.
type Session struct {
	Token  string `json:"token"`
	UserID int64  `json:"user_id"`
}

type Service struct {
	users  repository.UserRepo
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

type Option func(*Service)

// WithClock replaces time.Now for token issuance and validation.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

func NewService(users repository.UserRepo, secret string, ttl time.Duration, opts ...Option) *Service {
	s := &Service{users: users, secret: []byte(secret), ttl: ttl, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register stores a new user with a hashed password. The unique constraint
// on users.name decides duplicates; the lookup before the insert only saves
// a bcrypt round for the common case.
func (s *Service) Register(ctx context.Context, username, password string) (*models.User, error) {
	if username == "" || password == "" {
		return nil, apperr.Validation("missing or invalid user fields")
	}
	if len(password) > maxPasswordBytes {
		return nil, apperr.Validation("password must be at most %d bytes", maxPasswordBytes)
	}

	existing, err := s.users.GetUserByName(ctx, username)
	if err != nil {
		return nil, apperr.Internal("lookup user", err)
	}
	if existing != nil {
		return nil, ErrUsernameTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperr.Internal("hash password", err)
	}

	u := &models.User{Name: username, Password: string(hash)}
	id, err := s.users.CreateUser(ctx, u)
	if err != nil {
		if db.IsDuplicateKey(err) {
			return nil, ErrUsernameTaken
		}
		return nil, apperr.Internal("create user", err)
	}
	u.ID = id

	return u, nil
}

var (
	dummyOnce sync.Once
	dummyHash []byte
)

// dummy returns a hash compared against when the user does not exist, so
// both failure paths cost one bcrypt comparison.
func dummy() []byte {
	dummyOnce.Do(func() {
		dummyHash, _ = bcrypt.GenerateFromPassword([]byte("seekaclimb-dummy-password"), bcrypt.DefaultCost)
	})
	return dummyHash
}

// Authenticate checks the credentials and issues a token.
func (s *Service) Authenticate(ctx context.Context, username, password string) (*Session, error) {
	if username == "" || password == "" {
		return nil, apperr.Validation("missing or invalid user fields")
	}

	u, err := s.users.GetUserByName(ctx, username)
	if err != nil {
		return nil, apperr.Internal("lookup user", err)
	}
	if u == nil {
		_ = bcrypt.CompareHashAndPassword(dummy(), []byte(password))
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := s.IssueToken(u.ID)
	if err != nil {
		return nil, err
	}

	return &Session{Token: token, UserID: u.ID}, nil
}

// IssueToken signs a token for userID that expires after the configured TTL.
func (s *Service) IssueToken(userID int64) (string, error) {
	now := s.now()
	claims := Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(userID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", apperr.Internal("sign token", err)
	}

	return signed, nil
}

// ValidateToken verifies signature and expiry and returns the user id.
func (s *Service) ValidateToken(tokenString string) (int64, error) {
	if tokenString == "" {
		return 0, ErrInvalidToken
	}

	var claims Claims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !token.Valid {
		return 0, apperr.Wrap(apperr.KindUnauthorized, ErrInvalidToken.Message, err)
	}

	id := claims.UserID
	if id == 0 && claims.Subject != "" {
		id, err = strconv.ParseInt(claims.Subject, 10, 64)
		if err != nil {
			return 0, apperr.Wrap(apperr.KindUnauthorized, ErrInvalidToken.Message, err)
		}
	}
	if id <= 0 {
		return 0, apperr.Wrap(apperr.KindUnauthorized, ErrInvalidToken.Message, errors.New("token carries no user id"))
	}

	return id, nil
}
