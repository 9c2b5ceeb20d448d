package auth

import (
	"context"
	"encoding/json"

	"github.com/golang-jwt/jwt/v5"

	"gitlab.com/judgecore-2026.net/internal/core/ports/primary"
	"gitlab.com/judgecore-2026.net/internal/domain"
	"gitlab.com/judgecore-2026.net/internal/global/logger"
	"gitlab.com/judgecore-2026.net/internal/static/errs"
)

// issueToken builds the auth payload for a user and signs it with HMAC.
func issueToken(ctx context.Context, jwtProvider primary.JWTService, user *domain.Users) (string, error) {
	authPayload := domain.AuthPayload{
		Username:   user.UserName,
		Permission: []string{"judge.submit"},
	}

	raw, err := json.Marshal(authPayload)
	if err != nil {
		return "", errs.InternalError
	}
	var claims map[string]interface{}
	if err := json.Unmarshal(raw, &claims); err != nil {
		logger.Error("Failed to unmarshal auth payload", "error", err)
		return "", errs.InternalError
	}

	token, err := jwtProvider.GenerateTokenHMAC(ctx, jwt.SigningMethodHS256.Name, claims)
	if err != nil {
		return "", errs.GeneratingToken
	}
	return token, nil
}
