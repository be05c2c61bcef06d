package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const (
	RoleDirector = "DIRECTOR"
	RoleAdmin    = "ADMIN"
	RoleSeller   = "SELLER"
)

type ServiceAPI interface {
	Authenticate(dto LoginDTO) (AuthTokens, error)
	RefreshTokens(refreshToken string) (AuthTokens, error)
	ValidateAccessToken(tokenString string) (*Claims, error)
	GetActor(userID int64) (*User, error)
	HashPassword(password string) (string, error)
}

type RepositoryAPI interface {
	GetPasswordForUsername(username string) (passwordHash string, userID int64, err error)
	GetActorByID(userID int64) (*User, error)
}

// User is the authenticated actor every core operation receives. CreatedByID
// is nil only for Directors; for everyone else it points at the owning
// Director (the Seller indirection guarantees this).
type User struct {
	ID            int64  `json:"id"`
	Username      string `json:"username"`
	Name          string `json:"name"`
	Role          string `json:"role"`
	CreatedByID   *int64 `json:"created_by,omitempty"`
	WorkStartTime string `json:"work_start_time,omitempty"`
	WorkEndTime   string `json:"work_end_time,omitempty"`
}

func (u *User) IsDirector() bool { return u.Role == RoleDirector }
func (u *User) IsAdmin() bool    { return u.Role == RoleAdmin }
func (u *User) IsSeller() bool   { return u.Role == RoleSeller }

// DirectorID resolves the tenant root for this actor.
func (u *User) DirectorID() int64 {
	if u.IsDirector() || u.CreatedByID == nil {
		return u.ID
	}
	return *u.CreatedByID
}

func ValidRole(role string) bool {
	switch role {
	case RoleDirector, RoleAdmin, RoleSeller:
		return true
	}
	return false
}

type AuthTokens struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type Claims struct {
	UserID string `json:"user_id"`
	jwt.RegisteredClaims
}

type JWTTokenGenerator struct {
	AccessTokenSecret  []byte
	RefreshTokenSecret []byte
	AccessTokenTTL     time.Duration
	RefreshTokenTTL    time.Duration
}

type TokenGenerator interface {
	GenerateAccessToken(userID string) (string, error)
	GenerateRefreshToken(userID string) (string, error)
	ValidateToken(tokenString string) (*Claims, error)
}

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
	ErrTokenExpired       = errors.New("token expired")
	ErrUserInactive       = errors.New("user is inactive")
)

func VerifyPassword(hashedPassword, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
}

func HashPassword(password string, cost int) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
