package restapi

import (
	"net/http"

	"github.com/hvv-tools/departureboard/internal/departures"
	"github.com/hvv-tools/departureboard/internal/utils"
)

// boardRequest turns the path station and query string into an orchestration
// request. Parameters the client leaves out fall back to the configured board.
func (api *RestAPI) boardRequest(r *http.Request, rawStation string) (departures.Request, map[string][]string) {
	req := api.BoardRequest()
	fieldErrors := make(map[string][]string)

	station, err := utils.ValidateAndSanitizeStationName(rawStation)
	if err != nil {
		fieldErrors["station"] = append(fieldErrors["station"], err.Error())
	}
	req.Station = station

	query := r.URL.Query()

	if query.Has("city") {
		city := query.Get("city")
		if err := utils.ValidateCity(city); err != nil {
			fieldErrors["city"] = append(fieldErrors["city"], err.Error())
		}
		req.City = utils.SanitizeInput(city)
	}

	if query.Has("maxList") {
		var n int
		n, fieldErrors = utils.ParseIntParam(query, "maxList", fieldErrors)
		if err := utils.ValidateMaxList(n); err != nil {
			fieldErrors["maxList"] = append(fieldErrors["maxList"], err.Error())
		}
		req.MaxResults = n
	}

	if query.Has("maxTimeOffset") {
		var n int
		n, fieldErrors = utils.ParseIntParam(query, "maxTimeOffset", fieldErrors)
		if err := utils.ValidateMaxTimeOffset(n); err != nil {
			fieldErrors["maxTimeOffset"] = append(fieldErrors["maxTimeOffset"], err.Error())
		}
		req.MaxTimeOffset = n
	}

	var modes map[string]bool
	modes, fieldErrors = utils.ParseModeFlags(query, fieldErrors)
	if len(modes) > 0 {
		req.Modes = modes
	}

	return req, fieldErrors
}
