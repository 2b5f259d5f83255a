package memory

import (
	"context"
	"fmt"
	"strings"

	"github.com/riskibarqy/prode/internal/domain/group"
	"github.com/riskibarqy/prode/internal/domain/user"
	"github.com/riskibarqy/prode/internal/usecase"
)

const devTokenPrefix = "dev-token:"

// TokenVerifier accepts "dev-token:{userId}" for any seeded member. It stands in
// for the record store when the service runs without one in dev.
type TokenVerifier struct {
	principals map[string]user.Principal
}

func NewTokenVerifier(members []group.Member) *TokenVerifier {
	principals := make(map[string]user.Principal, len(members))
	for _, m := range members {
		if _, ok := principals[m.UserID]; ok {
			continue
		}
		principals[m.UserID] = user.Principal{UserID: m.UserID, DisplayName: m.DisplayName}
	}
	return &TokenVerifier{principals: principals}
}

func DevToken(userID string) string {
	return devTokenPrefix + userID
}

func (v *TokenVerifier) VerifyAccessToken(_ context.Context, token string) (user.Principal, error) {
	userID, ok := strings.CutPrefix(strings.TrimSpace(token), devTokenPrefix)
	if !ok {
		return user.Principal{}, fmt.Errorf("%w: unknown token", usecase.ErrUnauthorized)
	}
	principal, ok := v.principals[userID]
	if !ok {
		return user.Principal{}, fmt.Errorf("%w: unknown user", usecase.ErrUnauthorized)
	}
	return principal, nil
}
