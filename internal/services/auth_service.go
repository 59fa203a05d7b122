package services

import (
	"fmt"
	"log"
	"time"

	"darna/internal/models"
	"darna/internal/repositories"

	"github.com/dgrijalva/jwt-go"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Identity is the caller as described by a validated token.
type Identity struct {
	UserID   string
	Username string
	Role     string
}

// IsGuest reports whether the token was issued to an anonymous guest.
func (i Identity) IsGuest() bool { return i.Role == models.RoleGuest }

// IsAdmin reports whether the caller is an administrator.
func (i Identity) IsAdmin() bool { return i.Role == models.RoleAdmin }

// GuestSession is a freshly issued guest identity.
type GuestSession struct {
	GuestID   string    `json:"guest_id"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// AuthService handles business logic for authentication and authorization.
type AuthService struct {
	userRepo  repositories.UserRepository
	jwtSecret []byte
	tokenTTL  time.Duration
	guestTTL  time.Duration
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repositories.UserRepository, jwtSecret string, tokenTTL, guestTTL time.Duration) *AuthService {
	return &AuthService{
		userRepo:  userRepo,
		jwtSecret: []byte(jwtSecret),
		tokenTTL:  tokenTTL,
		guestTTL:  guestTTL,
	}
}

// RegisterUser registers a new customer, hashes their password, and saves them to the database.
func (s *AuthService) RegisterUser(user *models.User) error {
	if existingUser, err := s.userRepo.GetByUsername(user.Username); err == nil && existingUser != nil {
		return fmt.Errorf("%w: '%s'", ErrUsernameTaken, user.Username)
	}
	if existingUser, err := s.userRepo.GetByEmail(user.Email); err == nil && existingUser != nil {
		return fmt.Errorf("%w: '%s'", ErrEmailTaken, user.Email)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	user.Password = string(hashedPassword)
	// Admins are promoted out of band, never through registration.
	user.Role = models.RoleCustomer

	if err := s.userRepo.Create(user); err != nil {
		if repositories.IsDuplicate(err) {
			return fmt.Errorf("%w: '%s'", ErrUsernameTaken, user.Username)
		}
		return fmt.Errorf("failed to register user: %w", err)
	}
	return nil
}

// LoginUser authenticates a user and returns a JWT token if successful.
func (s *AuthService) LoginUser(username, password string) (string, error) {
	user, err := s.userRepo.GetByUsername(username)
	if err != nil {
		return "", ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}

	role := user.Role
	if role == "" {
		role = models.RoleCustomer
	}
	return s.sign(user.ID, user.Username, role, s.tokenTTL)
}

// IssueGuestToken creates an anonymous guest identity for the guest cart.
func (s *AuthService) IssueGuestToken() (*GuestSession, error) {
	guestID := "guest_" + uuid.New().String()
	token, err := s.sign(guestID, "", models.RoleGuest, s.guestTTL)
	if err != nil {
		return nil, err
	}
	return &GuestSession{
		GuestID:   guestID,
		Token:     token,
		ExpiresAt: time.Now().Add(s.guestTTL),
	}, nil
}

func (s *AuthService) sign(userID, username, role string, ttl time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id":  userID,
		"username": username,
		"role":     role,
		"exp":      time.Now().Add(ttl).Unix(),
		"iat":      time.Now().Unix(),
	})

	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return tokenString, nil
}

// ValidateToken parses and validates a JWT token, returning the claims if valid.
func (s *AuthService) ValidateToken(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})

	if err != nil {
		log.Printf("Token validation error: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		return claims, nil
	}

	return nil, ErrInvalidToken
}

// Identify validates a token and extracts the caller's identity.
func (s *AuthService) Identify(tokenString string) (Identity, error) {
	claims, err := s.ValidateToken(tokenString)
	if err != nil {
		return Identity{}, err
	}
	id := Identity{}
	id.UserID, _ = claims["user_id"].(string)
	id.Username, _ = claims["username"].(string)
	id.Role, _ = claims["role"].(string)
	if id.UserID == "" {
		return Identity{}, fmt.Errorf("%w: missing user_id", ErrInvalidToken)
	}
	if id.Role == "" {
		id.Role = models.RoleCustomer
	}
	return id, nil
}
