package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/go-kratos/kratos/v2/errors"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/iWorld-y/tender_audit/app/display/internal/conf"
	"github.com/iWorld-y/tender_audit/app/display/internal/domain"
	"github.com/iWorld-y/tender_audit/app/display/internal/repo"
)

const defaultTokenTTL = 24 * time.Hour

// Claims 登录凭证中携带的用户信息
type Claims struct {
	UserID   int    `json:"uid"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// UserUseCase 用户业务逻辑
type UserUseCase struct {
	repo   repo.UserRepo
	log    *log.Helper
	jwtKey []byte
	ttl    time.Duration
}

// NewUserUseCase 创建用户业务逻辑实例
func NewUserUseCase(repo repo.UserRepo, auth *conf.Auth, logger log.Logger) *UserUseCase {
	uc := &UserUseCase{
		repo:   repo,
		log:    log.NewHelper(logger),
		jwtKey: []byte("default-secret"),
		ttl:    defaultTokenTTL,
	}
	if auth == nil {
		return uc
	}
	if auth.JwtKey != "" {
		uc.jwtKey = []byte(auth.JwtKey)
	}
	if auth.TokenTtl != "" {
		if d, err := time.ParseDuration(auth.TokenTtl); err == nil && d > 0 {
			uc.ttl = d
		} else {
			uc.log.Warnf("invalid auth.token_ttl %q, using %s", auth.TokenTtl, defaultTokenTTL)
		}
	}
	return uc
}

// Register 用户注册
func (uc *UserUseCase) Register(ctx context.Context, username, password string) error {
	username = strings.TrimSpace(username)
	if username == "" || len(password) < 6 {
		return errors.BadRequest("INVALID_ARGUMENT", "username is required and password needs at least 6 characters")
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return uc.repo.CreateUser(ctx, &domain.User{
		Username:     username,
		PasswordHash: string(hashed),
	})
}

// Login 校验密码并签发 JWT
func (uc *UserUseCase) Login(ctx context.Context, username, password string) (string, error) {
	u, err := uc.repo.GetUserByUsername(ctx, strings.TrimSpace(username))
	if errors.IsNotFound(err) {
		return "", errors.Unauthorized("AUTH_FAILED", "invalid username or password")
	}
	if err != nil {
		return "", err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return "", errors.Unauthorized("AUTH_FAILED", "invalid username or password")
	}

	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		UserID:   u.ID,
		Username: u.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(uc.ttl)),
		},
	})
	return token.SignedString(uc.jwtKey)
}

// ParseToken 校验 JWT 并返回其中的用户信息
func (uc *UserUseCase) ParseToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(*jwt.Token) (any, error) {
		return uc.jwtKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, errors.Unauthorized("INVALID_TOKEN", err.Error())
	}
	return claims, nil
}
