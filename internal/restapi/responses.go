package restapi

import (
	"bytes"
	"encoding/json"
	"net/http"

	"github.com/hvv-tools/departureboard/internal/models"
)

// sendResponse encodes into a buffer first so an encoding failure can still
// produce a clean 500.
func (api *RestAPI) sendResponse(w http.ResponseWriter, r *http.Request, response models.ResponseModel) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(response); err != nil {
		api.serverErrorResponse(w, r, err)
		return
	}

	setJSONResponseType(&w)
	if _, err := w.Write(buf.Bytes()); err != nil {
		api.logger(r).Debug("failed to write response", "error", err)
	}
}

func setJSONResponseType(w *http.ResponseWriter) {
	(*w).Header().Set("Content-Type", "application/json")
}
