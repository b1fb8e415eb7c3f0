package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/suryakv/ecommerce-backend/internal/users"
	pkgauth "github.com/suryakv/ecommerce-backend/pkg/auth"
	"github.com/suryakv/ecommerce-backend/pkg/config"
	pkgerrors "github.com/suryakv/ecommerce-backend/pkg/errors"
	"github.com/suryakv/ecommerce-backend/pkg/logger"
)

// RoleCustomer is the default role assigned when login omits one.
const RoleCustomer = "customer"

var allowedRoles = map[string]struct{}{
	"customer": {},
	"admin":    {},
}

// LoginInput holds the validated login payload.
type LoginInput struct {
	Email string
	Role  string
}

// LoginResult carries the minted token plus the identity it encodes.
type LoginResult struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	Email       string `json:"email"`
	Role        string `json:"role"`
}

// Service exposes the login flow.
type Service interface {
	Login(ctx context.Context, input LoginInput) (*LoginResult, error)
}

type service struct {
	users  *users.Repository
	jwtCfg config.JWTConfig
	logg   *logger.Logger
}

// NewService constructs the auth service.
func NewService(userRepo *users.Repository, jwtCfg config.JWTConfig, logg *logger.Logger) (Service, error) {
	if userRepo == nil {
		return nil, fmt.Errorf("user repository required")
	}
	if jwtCfg.Secret == "" {
		return nil, fmt.Errorf("jwt secret required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{users: userRepo, jwtCfg: jwtCfg, logg: logg}, nil
}

// Login auto-registers unknown emails and mints an access token. The stored
// role wins for returning users, so a customer cannot relogin as admin.
func (s *service) Login(ctx context.Context, input LoginInput) (*LoginResult, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email is required")
	}

	role := strings.ToLower(strings.TrimSpace(input.Role))
	if role == "" {
		role = RoleCustomer
	}
	if _, ok := allowedRoles[role]; !ok {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unsupported role %q", role))
	}

	user, err := s.users.EnsureUser(ctx, email, role)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "ensure user")
	}

	token, err := pkgauth.MintAccessToken(s.jwtCfg, time.Now(), pkgauth.AccessTokenPayload{
		Email: user.Email,
		Role:  user.Role,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint access token")
	}

	s.logg.Info(s.logg.WithUserEmail(ctx, user.Email), "user logged in")

	return &LoginResult{
		AccessToken: token,
		TokenType:   "bearer",
		Email:       user.Email,
		Role:        user.Role,
	}, nil
}
