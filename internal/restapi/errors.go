package restapi

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/hvv-tools/departureboard/internal/geofox"
	"github.com/hvv-tools/departureboard/internal/logging"
	"github.com/hvv-tools/departureboard/internal/models"
)

// errorBody is the envelope used for responses that carry no data.
type errorBody struct {
	Code        int    `json:"code"`
	CurrentTime int64  `json:"currentTime"`
	Text        string `json:"text"`
	Version     int    `json:"version"`
}

func (api *RestAPI) writeError(w http.ResponseWriter, r *http.Request, status int, text string) {
	setJSONResponseType(&w)
	w.WriteHeader(status)
	err := json.NewEncoder(w).Encode(errorBody{
		Code:        status,
		CurrentTime: models.ResponseCurrentTime(),
		Text:        text,
		Version:     2,
	})
	if err != nil {
		logging.LogError(api.logger(r), "failed to encode error response", err,
			slog.Int("status", status))
	}
}

// invalidAPIKeyResponse sends a 401 Unauthorized response
func (api *RestAPI) invalidAPIKeyResponse(w http.ResponseWriter, r *http.Request) {
	api.writeError(w, r, http.StatusUnauthorized, "permission denied")
}

func (api *RestAPI) serverErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	logging.LogError(api.logger(r), "internal server error", err,
		slog.String("path", r.URL.Path))
	api.writeError(w, r, http.StatusInternalServerError, "internal server error")
}

func (api *RestAPI) notFoundResponse(w http.ResponseWriter, r *http.Request) {
	api.writeError(w, r, http.StatusNotFound, "resource not found")
}

// validationErrorResponse sends a 400 Bad Request response with field-specific validation errors
func (api *RestAPI) validationErrorResponse(w http.ResponseWriter, r *http.Request, fieldErrors map[string][]string) {
	response := struct {
		FieldErrors map[string][]string `json:"fieldErrors"`
	}{
		FieldErrors: fieldErrors,
	}

	setJSONResponseType(&w)
	w.WriteHeader(http.StatusBadRequest)
	if err := json.NewEncoder(w).Encode(response); err != nil {
		logging.LogError(api.logger(r), "failed to encode validation error response", err)
	}
}

// failureResponse reports a departure lookup failure. The failure itself is
// returned as the entry so clients can branch on its kind.
func (api *RestAPI) failureResponse(w http.ResponseWriter, r *http.Request, err error) {
	f := geofox.AsFailure(err)
	status := statusForKind(f.Kind)

	setJSONResponseType(&w)
	w.WriteHeader(status)
	response := models.NewResponse(status, models.EntryData{Entry: f}, f.Message)
	if encodeErr := json.NewEncoder(w).Encode(response); encodeErr != nil {
		logging.LogError(api.logger(r), "failed to encode failure response", encodeErr)
	}
}

// statusForKind maps a failure kind onto the HTTP status returned to clients.
func statusForKind(kind geofox.Kind) int {
	switch kind {
	case geofox.KindNotFound:
		return http.StatusNotFound
	case geofox.KindProvider, geofox.KindTransport:
		return http.StatusBadGateway
	case geofox.KindTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

func (api *RestAPI) baseLogger() *slog.Logger {
	if api.Logger == nil {
		return slog.Default()
	}
	return api.Logger
}

func (api *RestAPI) logger(r *http.Request) *slog.Logger {
	return logging.FromContextOr(r.Context(), api.baseLogger())
}
