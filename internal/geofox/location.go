package geofox

import (
	"fmt"
	"time"
	_ "time/tzdata"
)

// DefaultTimezone is the zone the GTI API reads and writes wall clock times in.
const DefaultTimezone = "Europe/Berlin"

const (
	dateLayout  = "02.01.2006"
	clockLayout = "15:04"
)

// LoadLocation resolves name, falling back to DefaultTimezone when it is empty.
func LoadLocation(name string) (*time.Location, error) {
	if name == "" {
		name = DefaultTimezone
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", name, err)
	}
	return loc, nil
}

func formatGTITime(t time.Time, loc *time.Location) gtiTime {
	local := t.In(loc)
	return gtiTime{
		Date: local.Format(dateLayout),
		Time: local.Format(clockLayout),
	}
}

func parseGTITime(v gtiTime, loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(dateLayout+" "+clockLayout, v.Date+" "+v.Time, loc)
}
