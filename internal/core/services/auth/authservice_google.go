package auth

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"gitlab.com/judgecore-2026.net/internal/core/ports/primary"
	"gitlab.com/judgecore-2026.net/internal/core/ports/secondary"
	"gitlab.com/judgecore-2026.net/internal/domain"
	"gitlab.com/judgecore-2026.net/internal/static/errs"
)

var _ IAuthService = &googleAuthService{}

type googleAuthService struct {
	userPort    secondary.UserPort
	jwtProvider primary.JWTService
}

func NewGoogleAuthService(userPort secondary.UserPort, jwtProvider primary.JWTService) IAuthService {
	return &googleAuthService{
		userPort:    userPort,
		jwtProvider: jwtProvider,
	}
}

func (g googleAuthService) ProviderName() domain.Provider {
	return domain.ProviderGoogle
}

// Login signs in a user verified against Google: finds the account by
// google id, or provisions one from the verified email on first sign-in.
func (g googleAuthService) Login(ctx context.Context, users *domain.Users) (string, error) {
	if users.GoogleID == nil {
		return "", errs.InvalidCredentials
	}
	if users.Email == nil {
		return "", errs.EmailRequired
	}

	usr, err := g.userPort.GetByGoogleID(ctx, *users.GoogleID)
	if err != nil {
		return "", err
	}
	if usr != nil {
		return issueToken(ctx, g.jwtProvider, usr)
	}

	users.ID = uuid.New()
	users.PasswordHash = nil
	users.UserName = strings.Split(*users.Email, "@")[0]
	users.AuthProvider = string(domain.ProviderGoogle)
	if err := g.userPort.Create(ctx, users); err != nil {
		return "", errs.FailedToCreateUser
	}

	return issueToken(ctx, g.jwtProvider, users)
}
