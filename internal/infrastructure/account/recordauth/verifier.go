package recordauth

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/riskibarqy/prode/external/recordstore"
	"github.com/riskibarqy/prode/internal/domain/user"
	basecache "github.com/riskibarqy/prode/internal/platform/cache"
	"github.com/riskibarqy/prode/internal/platform/logging"
	"github.com/riskibarqy/prode/internal/usecase"
)

const (
	defaultPrincipalTTL        = 2 * time.Minute
	defaultPrincipalMaxEntries = 10000
)

type authRefresher interface {
	AuthRefresh(ctx context.Context, token string) (recordstore.AuthRecord, error)
}

type Config struct {
	PrincipalTTL        time.Duration
	PrincipalMaxEntries int
	Logger              *logging.Logger
	Observer            basecache.Observer
}

// Verifier resolves bearer tokens into principals by refreshing them against the
// record store users collection. Accepted tokens are cached by hash; rejected
// tokens are asked again every time.
type Verifier struct {
	client     authRefresher
	principals *basecache.Store
	logger     *logging.Logger
}

func NewVerifier(client authRefresher, cfg Config) *Verifier {
	if cfg.PrincipalTTL <= 0 {
		cfg.PrincipalTTL = defaultPrincipalTTL
	}
	if cfg.PrincipalMaxEntries <= 0 {
		cfg.PrincipalMaxEntries = defaultPrincipalMaxEntries
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	opts := []basecache.Option{basecache.WithMaxEntries(cfg.PrincipalMaxEntries)}
	if cfg.Observer != nil {
		opts = append(opts, basecache.WithObserver(cfg.Observer))
	}

	return &Verifier{
		client:     client,
		principals: basecache.NewStore(cfg.PrincipalTTL, opts...),
		logger:     logger,
	}
}

func (v *Verifier) VerifyAccessToken(ctx context.Context, token string) (user.Principal, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return user.Principal{}, fmt.Errorf("%w: token is required", usecase.ErrUnauthorized)
	}

	value, err := v.principals.GetOrLoad(ctx, hashToken(token), func(ctx context.Context) (any, error) {
		record, err := v.client.AuthRefresh(ctx, token)
		if err != nil {
			return nil, err
		}
		return toPrincipal(record), nil
	})
	if err != nil {
		if !errors.Is(err, usecase.ErrUnauthorized) {
			v.logger.WarnContext(ctx, "token verification unavailable", "error", err)
		}
		return user.Principal{}, err
	}

	principal, _ := value.(user.Principal)
	return principal, nil
}

func toPrincipal(record recordstore.AuthRecord) user.Principal {
	name := strings.TrimSpace(record.Name)
	if name == "" {
		name = strings.TrimSpace(record.Username)
	}
	return user.Principal{
		UserID:      record.ID,
		Email:       record.Email,
		DisplayName: name,
	}
}

func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
