package routes

import (
	"github.com/danielgtaylor/huma/v2"
	"github.com/quatton/vitalsync/pkg/qapi/services"
)

// RegisterAPI mounts every operation. svcs may be nil when only the OpenAPI
// document is needed.
func RegisterAPI(api huma.API, svcs *services.Services) {
	if svcs == nil {
		svcs = services.EmptyServices()
	}
	if svcs.APIKey != nil {
		api.UseMiddleware(svcs.APIKey.Middleware(api))
	}

	RegisterHealth(api)
	RegisterAuth(api, svcs.Auth, svcs.Redirects)
	RegisterSync(api, svcs.Sync)
}
