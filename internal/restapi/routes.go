package restapi

import (
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"
)

type handlerFunc func(w http.ResponseWriter, r *http.Request)

func validateAPIKey(api *RestAPI, finalHandler handlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if api.RequestHasInvalidAPIKey(r) {
			api.invalidAPIKeyResponse(w, r)
			return
		}
		finalHandler(w, r)
	})
}

// SetRoutes registers the API endpoints on router.
func (api *RestAPI) SetRoutes(router *httprouter.Router) {
	router.Handler(http.MethodGet, "/api/current-time.json", validateAPIKey(api, api.currentTimeHandler))
	router.Handler(http.MethodGet, "/api/departures/:station", validateAPIKey(api, api.departuresHandler))
	router.Handler(http.MethodGet, "/api/stations/:name", validateAPIKey(api, api.stationHandler))

	router.NotFound = http.HandlerFunc(api.notFoundResponse)
	router.MethodNotAllowed = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		api.writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
	})
}

// Routes returns the API wrapped in its middleware chain. Logging sits
// outermost so rejected and rate limited requests are logged too.
func (api *RestAPI) Routes() http.Handler {
	router := httprouter.New()
	api.SetRoutes(router)

	if api.rateLimiter == nil {
		api.rateLimiter = NewRateLimitMiddleware(api.Config.RateLimit, time.Second)
	}

	var handler http.Handler = router
	handler = api.rateLimiter(handler)
	handler = CompressionMiddleware(handler)
	handler = api.WithSecurityHeaders(handler)
	handler = NewRequestLoggingMiddleware(api.baseLogger())(handler)
	return handler
}
