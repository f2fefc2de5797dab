package restapi

import (
	"net/http"

	"github.com/hvv-tools/departureboard/internal/models"
	"github.com/hvv-tools/departureboard/internal/utils"
)

func (api *RestAPI) departuresHandler(w http.ResponseWriter, r *http.Request) {
	req, fieldErrors := api.boardRequest(r, utils.ExtractIDFromParams(r, "station"))
	if len(fieldErrors) > 0 {
		api.validationErrorResponse(w, r, fieldErrors)
		return
	}

	result := api.Orchestrator.Run(r.Context(), req)
	api.RecordResult(result)
	if !result.OK() {
		api.failureResponse(w, r, result.Err())
		return
	}

	api.sendResponse(w, r, models.NewEntryResponse(result.Success))
}
