package service

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/laurealim/acr-backend/config"
	"github.com/laurealim/acr-backend/internal/dto"
	"github.com/laurealim/acr-backend/pkg/jwt"
)

func newAuthEnv(t *testing.T) (*testEnv, AuthService) {
	t.Helper()
	env := newTestEnv(t)

	hash, err := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("生成密码散列失败: %v", err)
	}
	env.store.users[subjectUser].PasswordHash = string(hash)

	jwtMgr := jwt.NewManager(&config.AuthConfig{
		JWTSecret:              "unit-test-secret-key",
		AccessTokenTTL:         15 * time.Minute,
		RefreshTokenTTLDefault: 24 * time.Hour,
	})
	// Login/Me/ChangePassword 不触达令牌黑名单
	auth := NewAuthService(env.repo, jwtMgr, nil, zap.NewNop())
	return env, auth
}

func TestLogin(t *testing.T) {
	_, auth := newAuthEnv(t)
	ctx := context.Background()

	resp, err := auth.Login(ctx, &dto.LoginRequest{Email: subjectUser + "@gov.bd", Password: "secret123"})
	if err != nil {
		t.Fatalf("登录失败: %v", err)
	}
	if resp.AccessToken == "" || resp.RefreshToken == "" {
		t.Error("登录应返回令牌对")
	}
	if resp.User.EmployeeID != subjectEmp {
		t.Errorf("登录响应应携带职员身份, 得到 %q", resp.User.EmployeeID)
	}

	if _, err := auth.Login(ctx, &dto.LoginRequest{Email: subjectUser + "@gov.bd", Password: "wrong"}); !errorIs(err, ErrInvalidCredentials) {
		t.Errorf("错误密码应被拒绝, 得到 %v", err)
	}
	if _, err := auth.Login(ctx, &dto.LoginRequest{Email: "nobody@gov.bd", Password: "secret123"}); !errorIs(err, ErrInvalidCredentials) {
		t.Errorf("不存在账户应被拒绝, 得到 %v", err)
	}
}

func TestLoginDisabledAccount(t *testing.T) {
	env, auth := newAuthEnv(t)
	env.store.users[subjectUser].IsActive = false

	_, err := auth.Login(context.Background(), &dto.LoginRequest{Email: subjectUser + "@gov.bd", Password: "secret123"})
	if !errorIs(err, ErrAccountDisabled) {
		t.Errorf("停用账户登录应被拒绝, 得到 %v", err)
	}
}

func TestChangePassword(t *testing.T) {
	env, auth := newAuthEnv(t)
	ctx := context.Background()

	err := auth.ChangePassword(ctx, subjectUser, &dto.ChangePasswordRequest{
		OldPassword: "wrong", NewPassword: "newsecret",
	})
	if !errorIs(err, ErrValidation) {
		t.Errorf("原密码错误应被拒绝, 得到 %v", err)
	}

	if err := auth.ChangePassword(ctx, subjectUser, &dto.ChangePasswordRequest{
		OldPassword: "secret123", NewPassword: "newsecret",
	}); err != nil {
		t.Fatalf("修改密码失败: %v", err)
	}
	stored := env.store.users[subjectUser]
	if bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("newsecret")) != nil {
		t.Error("新密码应生效")
	}
}

func TestMe(t *testing.T) {
	_, auth := newAuthEnv(t)
	info, err := auth.Me(context.Background(), keeperUser)
	if err != nil {
		t.Fatalf("查询当前账户失败: %v", err)
	}
	if !info.IsDossierKeeper {
		t.Error("保管员账户应标记档案权限")
	}
	if info.IsFirstClass {
		t.Error("Grade 11 不应标记一级官员")
	}
}
