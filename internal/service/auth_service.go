package service

import (
	"context"
	"errors"
	"ragnar/training-app/internal/domain"
	"ragnar/training-app/internal/repository"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

// --- Error Definitions ---
var (
	ErrUserAlreadyExists    = errors.New("user with this email already exists")
	ErrAuthenticationFailed = errors.New("authentication failed: invalid email or password")
	ErrHashingFailed        = errors.New("failed to hash password")
	ErrTokenGeneration      = errors.New("failed to generate authentication token")
	// ErrRoleUndetermined means the reverse-reference lookup failed. Callers
	// must treat this as "unknown", never as trainer: a transient store error
	// must not hand out trainer access.
	ErrRoleUndetermined = errors.New("could not determine user role")
	ErrInviteInvalid    = errors.New("invitation is invalid or expired")
	ErrInviteUsed       = errors.New("invitation has already been used by another account")
)

// Identity is a resolved login: the account plus its classified role and, for
// students, the linked roster profile.
type Identity struct {
	User      *domain.User
	Role      domain.Role
	AthleteID *primitive.ObjectID // Set only for students
}

// InviteInfo is what the registration screen needs before sign-up.
type InviteInfo struct {
	AthleteID   primitive.ObjectID
	AthleteName string
	Linked      bool // True when a login is already attached (suggest sign-in mode)
}

type AuthService interface {
	Register(ctx context.Context, name, email, password string) (*domain.User, error)
	Login(ctx context.Context, email, password string) (token string, identity *Identity, err error)
	// ResolveRole classifies an account by roster lookup: linked profile
	// found means student, not found means trainer, lookup failure means
	// undetermined.
	ResolveRole(ctx context.Context, userID primitive.ObjectID) (domain.Role, *primitive.ObjectID, error)
	// ResolveInvite fetches the greeting data for an invitation key.
	ResolveInvite(ctx context.Context, inviteID primitive.ObjectID) (*InviteInfo, error)
	// RegisterWithInvite creates a login and links it to the invited profile,
	// or signs into an existing account when the email is already registered.
	RegisterWithInvite(ctx context.Context, inviteID primitive.ObjectID, email, password string) (token string, identity *Identity, err error)
	GetJWTSecret() string
}

// authService implements the AuthService interface.
type authService struct {
	userRepo      repository.UserRepository
	athleteRepo   repository.AthleteRepository
	jwtSecret     string
	jwtExpiration time.Duration
}

// NewAuthService creates a new instance of authService.
func NewAuthService(userRepo repository.UserRepository, athleteRepo repository.AthleteRepository, jwtSecret string, jwtExpiration time.Duration) AuthService {
	if jwtSecret == "" {
		panic("JWT secret cannot be empty") // Critical configuration
	}
	if jwtExpiration <= 0 {
		jwtExpiration = time.Hour * 1
	}
	return &authService{
		userRepo:      userRepo,
		athleteRepo:   athleteRepo,
		jwtSecret:     jwtSecret,
		jwtExpiration: jwtExpiration,
	}
}

// Register handles new account creation (the trainer sign-up path; student
// accounts come in through RegisterWithInvite).
func (s *authService) Register(ctx context.Context, name, email, password string) (*domain.User, error) {
	if email == "" || password == "" {
		return nil, errors.New("email and password cannot be empty")
	}

	_, err := s.userRepo.GetByEmail(ctx, email)
	if err == nil {
		return nil, ErrUserAlreadyExists
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, ErrHashingFailed
	}

	user := &domain.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hashedPassword),
	}

	userID, err := s.userRepo.Create(ctx, user)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrUserAlreadyExists
		}
		return nil, err
	}
	user.ID = userID

	user.PasswordHash = ""
	return user, nil
}

// Login authenticates an account, resolves its role, and issues a JWT.
func (s *authService) Login(ctx context.Context, email, password string) (string, *Identity, error) {
	if email == "" || password == "" {
		return "", nil, errors.New("email and password cannot be empty")
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", nil, ErrAuthenticationFailed
		}
		return "", nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", nil, ErrAuthenticationFailed
	}

	return s.issueToken(ctx, user)
}

// ResolveRole classifies an authenticated account. Resolution is idempotent:
// the same account always yields the same role and, for students, the same
// linked profile key.
func (s *authService) ResolveRole(ctx context.Context, userID primitive.ObjectID) (domain.Role, *primitive.ObjectID, error) {
	athlete, err := s.athleteRepo.GetByStudentUserID(ctx, userID)
	if err == nil {
		return domain.RoleStudent, &athlete.ID, nil
	}
	if errors.Is(err, repository.ErrNotFound) {
		// No profile links to this account: trainer by fallback.
		return domain.RoleTrainer, nil, nil
	}
	// The lookup itself failed. Leave the role undetermined rather than
	// falling through to trainer.
	return "", nil, ErrRoleUndetermined
}

// ResolveInvite fetches the invited profile's greeting data.
func (s *authService) ResolveInvite(ctx context.Context, inviteID primitive.ObjectID) (*InviteInfo, error) {
	athlete, err := s.athleteRepo.GetByID(ctx, inviteID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInviteInvalid
		}
		return nil, err
	}
	return &InviteInfo{
		AthleteID:   athlete.ID,
		AthleteName: athlete.Name,
		Linked:      athlete.IsLinked(),
	}, nil
}

// RegisterWithInvite completes the invitation flow. A fresh email creates an
// account and links it to the invited profile (one-time, first link wins); an
// email that already has an account signs in instead, without touching the
// link.
func (s *authService) RegisterWithInvite(ctx context.Context, inviteID primitive.ObjectID, email, password string) (string, *Identity, error) {
	if email == "" || password == "" {
		return "", nil, errors.New("email and password cannot be empty")
	}

	athlete, err := s.athleteRepo.GetByID(ctx, inviteID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", nil, ErrInviteInvalid
		}
		return "", nil, err
	}

	existing, err := s.userRepo.GetByEmail(ctx, email)
	if err == nil {
		// Email already registered: fall back to a plain sign-in.
		if bcrypt.CompareHashAndPassword([]byte(existing.PasswordHash), []byte(password)) != nil {
			return "", nil, ErrAuthenticationFailed
		}
		return s.issueToken(ctx, existing)
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return "", nil, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", nil, ErrHashingFailed
	}

	user := &domain.User{
		Name:         athlete.Name,
		Email:        email,
		PasswordHash: string(hashedPassword),
	}
	userID, err := s.userRepo.Create(ctx, user)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return "", nil, ErrUserAlreadyExists
		}
		return "", nil, err
	}
	user.ID = userID

	if err := s.athleteRepo.LinkStudentUser(ctx, athlete.ID, userID, email); err != nil {
		if errors.Is(err, repository.ErrAlreadyLinked) {
			return "", nil, ErrInviteUsed
		}
		return "", nil, err
	}

	return s.issueToken(ctx, user)
}

// issueToken resolves the account's role and signs a JWT for it.
func (s *authService) issueToken(ctx context.Context, user *domain.User) (string, *Identity, error) {
	role, athleteID, err := s.ResolveRole(ctx, user.ID)
	if err != nil {
		return "", nil, err
	}

	token, err := s.generateJWT(user, role, athleteID)
	if err != nil {
		return "", nil, ErrTokenGeneration
	}

	user.PasswordHash = ""
	return token, &Identity{User: user, Role: role, AthleteID: athleteID}, nil
}

// --- JWT Helper ---

// jwtClaims defines the structure of the JWT payload.
type jwtClaims struct {
	UserID    string      `json:"uid"`
	Role      domain.Role `json:"role"`
	AthleteID string      `json:"athleteId,omitempty"` // Linked profile key, students only
	jwt.RegisteredClaims
}

// generateJWT creates a new JWT token for the given user.
func (s *authService) generateJWT(user *domain.User, role domain.Role, athleteID *primitive.ObjectID) (string, error) {
	expirationTime := time.Now().Add(s.jwtExpiration)
	claims := &jwtClaims{
		UserID: user.ID.Hex(),
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.Hex(),
			ExpiresAt: jwt.NewNumericDate(expirationTime),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    "training-app",
		},
	}
	if athleteID != nil {
		claims.AthleteID = athleteID.Hex()
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signedToken, err := token.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return "", err
	}
	return signedToken, nil
}

// GetJWTSecret returns the JWT secret for middleware authentication
func (s *authService) GetJWTSecret() string {
	return s.jwtSecret
}
