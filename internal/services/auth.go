package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/studyhall/lms-backend/internal/domain"
	userrepo "github.com/studyhall/lms-backend/internal/data/repos/user"
	"github.com/studyhall/lms-backend/internal/platform/ctxutil"
	"github.com/studyhall/lms-backend/internal/platform/logger"
)

type AuthService interface {
	Register(ctx context.Context, email, password, firstName, lastName, role string) (*domain.User, error)
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
	// SetContextFromToken validates a bearer token and returns a context
	// carrying the authenticated user's id and role.
	SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error)
}

type authService struct {
	db           *gorm.DB
	log          *logger.Logger
	userRepo     userrepo.UserRepo
	jwtSecretKey string
	accessTTL    time.Duration
}

func NewAuthService(db *gorm.DB, baseLog *logger.Logger, userRepo userrepo.UserRepo, jwtSecretKey string, accessTTL time.Duration) AuthService {
	return &authService{
		db:           db,
		log:          baseLog.With("service", "AuthService"),
		userRepo:     userRepo,
		jwtSecretKey: jwtSecretKey,
		accessTTL:    accessTTL,
	}
}

func validRole(role string) bool {
	switch role {
	case domain.RoleAdmin, domain.RoleInstructor, domain.RoleStudent:
		return true
	default:
		return false
	}
}

func (as *authService) Register(ctx context.Context, email, password, firstName, lastName, role string) (*domain.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, fmt.Errorf("%w: invalid email", domain.ErrValidation)
	}
	if len(password) < 8 {
		return nil, fmt.Errorf("%w: password must be at least 8 characters", domain.ErrValidation)
	}
	if role == "" {
		role = domain.RoleStudent
	}
	if !validRole(role) {
		return nil, fmt.Errorf("%w: unknown role %q", domain.ErrValidation, role)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{
		Email:     email,
		Password:  string(hash),
		FirstName: strings.TrimSpace(firstName),
		LastName:  strings.TrimSpace(lastName),
		Role:      role,
	}

	if err := as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		created, cErr := as.userRepo.Create(ctx, tx, []*domain.User{user})
		if cErr != nil {
			if errors.Is(cErr, gorm.ErrDuplicatedKey) {
				return fmt.Errorf("%w: email already registered", domain.ErrValidation)
			}
			return fmt.Errorf("create user: %w", cErr)
		}
		user = created[0]
		return nil
	}); err != nil {
		return nil, err
	}

	as.log.Info("user registered", "user_id", user.ID, "role", user.Role)
	return user, nil
}

func (as *authService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := as.userRepo.GetByEmail(ctx, nil, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil, domain.ErrUnauthorized
		}
		return "", nil, fmt.Errorf("lookup user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", nil, domain.ErrUnauthorized
	}

	token, err := as.generateAccessToken(user)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

func (as *authService) generateAccessToken(user *domain.User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":  user.ID.String(),
		"role": user.Role,
		"iat":  now.Unix(),
		"exp":  now.Add(as.accessTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(as.jwtSecretKey))
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

func (as *authService) SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(as.jwtSecretKey), nil
	})
	if err != nil || !token.Valid {
		return ctx, domain.ErrUnauthorized
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return ctx, domain.ErrUnauthorized
	}

	sub, _ := claims["sub"].(string)
	userID, err := uuid.Parse(sub)
	if err != nil {
		return ctx, domain.ErrUnauthorized
	}
	role, _ := claims["role"].(string)

	return ctxutil.WithRequestData(ctx, &ctxutil.RequestData{UserID: userID, Role: role}), nil
}
