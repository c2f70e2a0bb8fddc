package service

import (
	"context"
	"strings"

	"github.com/souq-next/internal/cache"
	"github.com/souq-next/internal/constants"
	"github.com/souq-next/internal/logger"
	"github.com/souq-next/internal/repository"
)

// AuthService 将令牌解析为调用方身份，角色以数据库为准
type AuthService struct {
	userRepo repository.UserRepository
	tokens   *TokenService
}

// NewAuthService 创建鉴权服务
func NewAuthService(userRepo repository.UserRepository, tokens *TokenService) *AuthService {
	return &AuthService{userRepo: userRepo, tokens: tokens}
}

// Tokens 返回令牌服务
func (s *AuthService) Tokens() *TokenService {
	return s.tokens
}

// Authenticate 校验令牌并加载调用方
func (s *AuthService) Authenticate(ctx context.Context, tokenString string) (*Principal, error) {
	claims, err := s.tokens.Parse(strings.TrimSpace(tokenString))
	if err != nil {
		return nil, err
	}

	state, hit, err := cache.GetUserAuthState(ctx, claims.UserID)
	if err != nil {
		logger.FromContext(ctx).Warnw("auth_state_cache_read_failed", "user_id", claims.UserID, "error", err)
	}
	if !hit || state == nil {
		user, err := s.userRepo.GetByID(claims.UserID)
		if err != nil {
			return nil, err
		}
		if user == nil {
			return nil, ErrUserNotFound
		}
		state = cache.BuildUserAuthState(user)
		if err := cache.SetUserAuthState(ctx, state); err != nil {
			logger.FromContext(ctx).Warnw("auth_state_cache_write_failed", "user_id", claims.UserID, "error", err)
		}
	}
	if strings.EqualFold(state.Status, constants.UserStatusDisabled) {
		return nil, ErrUserDisabled
	}
	return &Principal{UserID: state.UserID, Role: strings.ToUpper(state.Role)}, nil
}
