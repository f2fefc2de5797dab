package models

import "time"

// CurrentTimeModel Current time specific model
type CurrentTimeModel struct {
	ReadableTime string `json:"readableTime"`
	Time         int64  `json:"time"`
	Timezone     string `json:"timezone"`
}

// NewCurrentTimeModel renders t in loc, the zone departures are requested in
func NewCurrentTimeModel(t time.Time, loc *time.Location) CurrentTimeModel {
	local := t.In(loc)
	return CurrentTimeModel{
		ReadableTime: local.Format(time.RFC3339),
		Time:         local.UnixMilli(),
		Timezone:     loc.String(),
	}
}
