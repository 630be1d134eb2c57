package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tripacker/tripacker-backend/internal/logger"
	"github.com/tripacker/tripacker-backend/internal/repos"
	"github.com/tripacker/tripacker-backend/internal/types"
	"github.com/tripacker/tripacker-backend/internal/utils"
)

type TokenPair struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
}

type AuthService interface {
	Register(ctx context.Context, email, password, firstName, lastName string) (*types.User, *TokenPair, error)
	Login(ctx context.Context, email, password string) (*types.User, *TokenPair, error)
	// Refresh rotates the session the refresh token belongs to; the old pair
	// stops working immediately.
	Refresh(ctx context.Context, refreshToken string) (*TokenPair, error)
	Logout(ctx context.Context, accessToken string) error
	// ValidateAccessToken verifies signature, expiry and that the session has
	// not been revoked server-side.
	ValidateAccessToken(ctx context.Context, accessToken string) (uuid.UUID, error)
}

type authService struct {
	db  *gorm.DB
	log *logger.Logger

	userRepo  repos.UserRepo
	tokenRepo repos.UserTokenRepo

	jwtSecret  []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

func NewAuthService(db *gorm.DB, log *logger.Logger, userRepo repos.UserRepo, tokenRepo repos.UserTokenRepo) (AuthService, error) {
	serviceLog := log.With("service", "AuthService")

	secret := utils.GetEnv("JWT_SECRET", "", serviceLog)
	if secret == "" {
		return nil, fmt.Errorf("missing JWT_SECRET")
	}

	return &authService{
		db:         db,
		log:        serviceLog,
		userRepo:   userRepo,
		tokenRepo:  tokenRepo,
		jwtSecret:  []byte(secret),
		accessTTL:  time.Duration(utils.GetEnvAsInt("JWT_ACCESS_TTL_MINUTES", 60, serviceLog)) * time.Minute,
		refreshTTL: time.Duration(utils.GetEnvAsInt("JWT_REFRESH_TTL_HOURS", 720, serviceLog)) * time.Hour,
	}, nil
}

func (as *authService) Register(ctx context.Context, email, password, firstName, lastName string) (*types.User, *TokenPair, error) {
	email = utils.NormalizeEmail(email)
	if err := utils.ValidateRegistration(email, password); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	exists, err := as.userRepo.EmailExists(ctx, nil, email)
	if err != nil {
		return nil, nil, fmt.Errorf("checking email: %w", err)
	}
	if exists {
		return nil, nil, ErrEmailTaken
	}

	hashed, err := utils.HashPassword(password)
	if err != nil {
		return nil, nil, fmt.Errorf("hashing password: %w", err)
	}

	user := &types.User{
		ID:        uuid.New(),
		Email:     email,
		Password:  hashed,
		FirstName: firstName,
		LastName:  lastName,
	}

	var pair *TokenPair
	err = as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := as.userRepo.Create(ctx, tx, []*types.User{user}); err != nil {
			return fmt.Errorf("creating user: %w", err)
		}
		var issueErr error
		pair, issueErr = as.issueTokens(ctx, tx, user.ID)
		return issueErr
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, nil, ErrEmailTaken
		}
		return nil, nil, err
	}

	as.log.Info("User registered", "userID", user.ID)
	return user, pair, nil
}

func (as *authService) Login(ctx context.Context, email, password string) (*types.User, *TokenPair, error) {
	email = utils.NormalizeEmail(email)

	users, err := as.userRepo.GetByEmails(ctx, nil, []string{email})
	if err != nil {
		return nil, nil, fmt.Errorf("loading user: %w", err)
	}
	if len(users) == 0 || utils.CheckPassword(users[0].Password, password) != nil {
		return nil, nil, ErrInvalidCredentials
	}
	user := users[0]

	pair, err := as.issueTokens(ctx, nil, user.ID)
	if err != nil {
		return nil, nil, err
	}
	as.log.Info("User logged in", "userID", user.ID)
	return user, pair, nil
}

func (as *authService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	userID, err := as.parseToken(refreshToken)
	if err != nil {
		return nil, ErrInvalidToken
	}

	sessions, err := as.tokenRepo.GetByRefreshTokens(ctx, nil, []string{refreshToken})
	if err != nil {
		return nil, fmt.Errorf("loading session: %w", err)
	}
	if len(sessions) == 0 || sessions[0].UserID != userID {
		return nil, ErrInvalidToken
	}

	var pair *TokenPair
	err = as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := as.tokenRepo.DeleteByIDs(ctx, tx, []uuid.UUID{sessions[0].ID}); err != nil {
			return fmt.Errorf("revoking session: %w", err)
		}
		var issueErr error
		pair, issueErr = as.issueTokens(ctx, tx, userID)
		return issueErr
	})
	if err != nil {
		return nil, err
	}
	return pair, nil
}

func (as *authService) Logout(ctx context.Context, accessToken string) error {
	sessions, err := as.tokenRepo.GetByAccessTokens(ctx, nil, []string{accessToken})
	if err != nil {
		return fmt.Errorf("loading session: %w", err)
	}
	if len(sessions) == 0 {
		return nil
	}
	return as.tokenRepo.DeleteByIDs(ctx, nil, []uuid.UUID{sessions[0].ID})
}

func (as *authService) ValidateAccessToken(ctx context.Context, accessToken string) (uuid.UUID, error) {
	userID, err := as.parseToken(accessToken)
	if err != nil {
		return uuid.Nil, ErrInvalidToken
	}
	sessions, err := as.tokenRepo.GetByAccessTokens(ctx, nil, []string{accessToken})
	if err != nil {
		return uuid.Nil, fmt.Errorf("loading session: %w", err)
	}
	if len(sessions) == 0 || sessions[0].UserID != userID {
		return uuid.Nil, ErrInvalidToken
	}
	if time.Now().After(sessions[0].ExpiresAt) {
		return uuid.Nil, ErrInvalidToken
	}
	return userID, nil
}

func (as *authService) issueTokens(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*TokenPair, error) {
	now := time.Now()
	accessExpires := now.Add(as.accessTTL)

	access, err := as.signToken(userID, now, accessExpires)
	if err != nil {
		return nil, fmt.Errorf("signing access token: %w", err)
	}
	refresh, err := as.signToken(userID, now, now.Add(as.refreshTTL))
	if err != nil {
		return nil, fmt.Errorf("signing refresh token: %w", err)
	}

	session := &types.UserToken{
		ID:           uuid.New(),
		UserID:       userID,
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresAt:    accessExpires,
	}
	if _, err := as.tokenRepo.Create(ctx, tx, []*types.UserToken{session}); err != nil {
		return nil, fmt.Errorf("storing session: %w", err)
	}

	return &TokenPair{AccessToken: access, RefreshToken: refresh, ExpiresAt: accessExpires}, nil
}

func (as *authService) signToken(userID uuid.UUID, issuedAt, expiresAt time.Time) (string, error) {
	claims := jwt.RegisteredClaims{
		Subject:   userID.String(),
		IssuedAt:  jwt.NewNumericDate(issuedAt),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
		ID:        uuid.NewString(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(as.jwtSecret)
}

func (as *authService) parseToken(tokenString string) (uuid.UUID, error) {
	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return as.jwtSecret, nil
	})
	if err != nil || !token.Valid {
		return uuid.Nil, ErrInvalidToken
	}
	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok {
		return uuid.Nil, ErrInvalidToken
	}
	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return uuid.Nil, ErrInvalidToken
	}
	return userID, nil
}

