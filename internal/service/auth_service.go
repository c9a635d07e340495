package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/RS76448/attendencesystem/internal/dto"
	"github.com/RS76448/attendencesystem/internal/identity"
	"github.com/RS76448/attendencesystem/internal/model"
	"github.com/RS76448/attendencesystem/internal/repository"
	pkgerrors "github.com/RS76448/attendencesystem/pkg/errors"
	"github.com/RS76448/attendencesystem/pkg/jwt"
	"github.com/RS76448/attendencesystem/pkg/redis"
)

var (
	ErrInvalidCredentials  = errors.New("email or password is incorrect")
	ErrEmailTaken          = errors.New("this email address is already registered")
	ErrInvalidEmail        = errors.New("please enter a valid email address")
	ErrWeakPassword        = errors.New("password is too weak")
	ErrUserNotFound        = errors.New("user not found")
	ErrInvalidRefreshToken = errors.New("refresh token is invalid or expired")
)

// AuthService sign-up, sign-in and token lifecycle.
type AuthService interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.TokenResponse, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error)
	Refresh(ctx context.Context, req *dto.RefreshTokenRequest) (*dto.TokenResponse, error)
	// Logout revokes the access token jti until its expiry and ends provider sessions.
	Logout(ctx context.Context, userID, tokenID string, expiresAt time.Time) error
	Me(ctx context.Context, userID string) (*dto.UserResponse, error)
}

type authService struct {
	repo   *repository.Repository
	idp    identity.Provider
	jwtMgr *jwt.Manager
	rdb    *redis.Client
	now    Clock
	logger *zap.Logger
}

// NewAuthService creates an AuthService.
func NewAuthService(
	repo *repository.Repository,
	idp identity.Provider,
	jwtMgr *jwt.Manager,
	rdb *redis.Client,
	clock Clock,
	logger *zap.Logger,
) AuthService {
	return &authService{
		repo:   repo,
		idp:    idp,
		jwtMgr: jwtMgr,
		rdb:    rdb,
		now:    clock,
		logger: logger,
	}
}

// identityError maps provider errors onto the messages shown to users.
func identityError(err error) error {
	switch {
	case errors.Is(err, identity.ErrEmailInUse):
		return ErrEmailTaken
	case errors.Is(err, identity.ErrInvalidEmail):
		return ErrInvalidEmail
	case errors.Is(err, identity.ErrWeakPassword):
		return ErrWeakPassword
	case errors.Is(err, identity.ErrInvalidCredentials):
		return ErrInvalidCredentials
	}
	return err
}

// createProfile creates the identity account and then the profile document.
// If the profile cannot be written the account is removed again.
func createProfile(ctx context.Context, repo *repository.Repository, idp identity.Provider, now Clock, logger *zap.Logger, user *model.User, password string) error {
	acct, err := idp.CreateAccount(ctx, user.Email, password, user.Name)
	if err != nil {
		if mapped := identityError(err); mapped != err {
			return mapped
		}
		logger.Error("create identity account failed", zap.String("email", user.Email), zap.Error(err))
		return err
	}

	user.ID = acct.UID
	user.Email = acct.Email
	user.Touch(now().UTC())
	if err := repo.User.Create(ctx, user); err != nil {
		if delErr := idp.DeleteAccount(ctx, acct.UID); delErr != nil {
			logger.Warn("rollback identity account failed", zap.String("uid", acct.UID), zap.Error(delErr))
		}
		if errors.Is(err, repository.ErrDuplicate) {
			return ErrEmailTaken
		}
		return storeFailure(logger, "create user", err, zap.String("uid", acct.UID))
	}
	return nil
}

// resolveEnrolment checks that course names a known course offering semester
// and returns the stored course name.
func resolveEnrolment(ctx context.Context, repo *repository.Repository, logger *zap.Logger, course, semester string) (string, error) {
	c, err := repo.Course.GetByNameKey(ctx, model.CourseNameKey(course))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", pkgerrors.Invalid("course", "unknown course %q", course)
		}
		return "", storeFailure(logger, "load course", err)
	}
	if !c.HasSemester(strings.TrimSpace(semester)) {
		return "", pkgerrors.Invalid("semester", "course %s has no semester %q", c.Name, semester)
	}
	return c.Name, nil
}

func (s *authService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.TokenResponse, error) {
	course, err := resolveEnrolment(ctx, s.repo, s.logger, req.Course, req.Semester)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Name:     strings.TrimSpace(req.Name),
		Email:    req.Email,
		Role:     model.RoleStudent,
		Course:   course,
		Semester: strings.TrimSpace(req.Semester),
		PRN:      strings.TrimSpace(req.PRN),
	}
	if err := createProfile(ctx, s.repo, s.idp, s.now, s.logger, user, req.Password); err != nil {
		return nil, err
	}

	s.logger.Info("student registered", zap.String("user_id", user.ID), zap.String("course", user.Course))
	return s.issueTokens(user, false)
}

func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error) {
	acct, err := s.idp.SignIn(ctx, req.Email, req.Password)
	if err != nil {
		if mapped := identityError(err); mapped != err {
			return nil, mapped
		}
		s.logger.Error("sign in failed", zap.Error(err))
		return nil, err
	}

	user, err := s.repo.User.GetByID(ctx, acct.UID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.logger.Warn("account has no profile", zap.String("uid", acct.UID))
			return nil, ErrInvalidCredentials
		}
		return nil, storeFailure(s.logger, "load user", err, zap.String("uid", acct.UID))
	}

	return s.issueTokens(user, req.RememberMe)
}

func (s *authService) Refresh(ctx context.Context, req *dto.RefreshTokenRequest) (*dto.TokenResponse, error) {
	claims, err := s.jwtMgr.ParseToken(req.RefreshToken)
	if err != nil || claims.TokenType != jwt.TokenRefresh {
		return nil, ErrInvalidRefreshToken
	}

	if s.rdb != nil {
		revoked, err := s.rdb.IsBlacklisted(ctx, claims.ID)
		if err != nil {
			s.logger.Warn("token blacklist lookup failed", zap.Error(err))
		} else if revoked {
			return nil, ErrInvalidRefreshToken
		}
	}

	user, err := lookupUser(ctx, s.repo, s.logger, claims.UserID, ErrInvalidRefreshToken)
	if err != nil {
		return nil, err
	}

	// Rotate: the presented refresh token is single use.
	if s.rdb != nil {
		if err := s.rdb.BlacklistToken(ctx, claims.ID, time.Until(claims.ExpiresAt.Time)); err != nil {
			s.logger.Warn("revoke refresh token failed", zap.Error(err))
		}
	}

	return s.issueTokens(user, claims.RememberMe)
}

func (s *authService) Logout(ctx context.Context, userID, tokenID string, expiresAt time.Time) error {
	if s.rdb != nil && tokenID != "" {
		if err := s.rdb.BlacklistToken(ctx, tokenID, time.Until(expiresAt)); err != nil {
			s.logger.Warn("revoke access token failed", zap.String("user_id", userID), zap.Error(err))
		}
	}
	if err := s.idp.SignOut(ctx, userID); err != nil {
		s.logger.Error("identity sign out failed", zap.String("user_id", userID), zap.Error(err))
		return err
	}
	return nil
}

func (s *authService) Me(ctx context.Context, userID string) (*dto.UserResponse, error) {
	user, err := lookupUser(ctx, s.repo, s.logger, userID, ErrUserNotFound)
	if err != nil {
		return nil, err
	}
	resp := toUserResponse(user)
	return &resp, nil
}

func (s *authService) issueTokens(user *model.User, rememberMe bool) (*dto.TokenResponse, error) {
	accessToken, err := s.jwtMgr.GenerateAccessToken(user.ID, string(user.Role))
	if err != nil {
		s.logger.Error("generate access token failed", zap.Error(err))
		return nil, err
	}
	refreshToken, err := s.jwtMgr.GenerateRefreshToken(user.ID, string(user.Role), rememberMe)
	if err != nil {
		s.logger.Error("generate refresh token failed", zap.Error(err))
		return nil, err
	}

	return &dto.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int(s.jwtMgr.AccessTokenTTL().Seconds()),
		User:         toUserResponse(user),
	}, nil
}
