package apikey

import (
	"crypto/subtle"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/quatton/vitalsync/pkg/qapi"
	"github.com/quatton/vitalsync/pkg/qlog"
)

// Guard checks the shared API key on operations that declare the apiKey
// security scheme. An empty key disables the check.
type Guard struct {
	key    []byte
	logger *qlog.Logger
}

func NewGuard(key string, logger *qlog.Logger) *Guard {
	if logger == nil {
		logger = qlog.NewDiscard()
	}
	return &Guard{key: []byte(key), logger: logger}
}

func (g *Guard) Enabled() bool {
	return len(g.key) > 0
}

// Valid reports whether presented matches the configured key.
func (g *Guard) Valid(presented string) bool {
	if !g.Enabled() {
		return true
	}
	return subtle.ConstantTimeCompare([]byte(presented), g.key) == 1
}

func (g *Guard) Middleware(api huma.API) func(ctx huma.Context, next func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		if !g.Enabled() || !requiresKey(ctx.Operation()) {
			next(ctx)
			return
		}

		if !g.Valid(ctx.Header(qapi.APIKeyHeader)) {
			g.logger.Warn("rejected request with invalid api key",
				"operation", ctx.Operation().OperationID,
				"remote", ctx.RemoteAddr(),
			)
			_ = huma.WriteErr(api, ctx, http.StatusUnauthorized, "missing or invalid API key")
			return
		}

		next(ctx)
	}
}

func requiresKey(op *huma.Operation) bool {
	if op == nil {
		return false
	}
	for _, req := range op.Security {
		if _, ok := req[qapi.APIKeyScheme]; ok {
			return true
		}
	}
	return false
}
