package models

import (
	"time"

	"github.com/hvv-tools/departureboard/internal/geofox"
)

// Departure is a normalized departure. DelayMinutes is converted from the
// provider's seconds only when the delay is positive.
type Departure struct {
	Line          string         `json:"line"`
	Direction     string         `json:"direction"`
	ScheduledTime time.Time      `json:"scheduledTime"`
	DelayMinutes  float64        `json:"delayMinutes"`
	ServiceType   geofox.ModeTag `json:"serviceType"`
}

// StationModel is the resolved station as exposed by the API
type StationModel struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	City         string `json:"city"`
	CombinedName string `json:"combinedName"`
}

// NewStationModel converts a resolved station
func NewStationModel(s geofox.ResolvedStation) StationModel {
	return StationModel{
		ID:           s.ID,
		Name:         s.Name,
		City:         s.City,
		CombinedName: s.CombinedName,
	}
}
