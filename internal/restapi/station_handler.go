package restapi

import (
	"net/http"

	"github.com/hvv-tools/departureboard/internal/models"
	"github.com/hvv-tools/departureboard/internal/utils"
)

// stationHandler resolves a name without fetching departures, which lets a
// client check what a board would be showing.
func (api *RestAPI) stationHandler(w http.ResponseWriter, r *http.Request) {
	req, fieldErrors := api.boardRequest(r, utils.ExtractIDFromParams(r, "name"))
	if len(fieldErrors) > 0 {
		api.validationErrorResponse(w, r, fieldErrors)
		return
	}

	station, err := api.Orchestrator.ResolveStation(r.Context(), req)
	if err != nil {
		api.failureResponse(w, r, err)
		return
	}

	api.sendResponse(w, r, models.NewEntryResponse(models.NewStationModel(station)))
}
