package restapi

import (
	"net/http"
	"time"

	"github.com/hvv-tools/departureboard/internal/models"
)

// currentTimeHandler reports server time in the zone departures are requested in.
func (api *RestAPI) currentTimeHandler(w http.ResponseWriter, r *http.Request) {
	timeData := models.NewCurrentTimeModel(time.Now(), api.Config.Location())
	api.sendResponse(w, r, models.NewEntryResponse(timeData))
}
