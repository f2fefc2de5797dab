package geofox

import "strings"

// ModeTag is a transport mode understood by the departure filter.
type ModeTag string

const (
	ModeBus              ModeTag = "BUS"
	ModeTrain            ModeTag = "TRAIN"
	ModeSuburbanRail     ModeTag = "SUBURBAN_RAIL"
	ModeSubway           ModeTag = "SUBWAY"
	ModeLocalRail        ModeTag = "LOCAL_RAIL"
	ModeLongDistanceRail ModeTag = "LONG_DISTANCE_RAIL"
	ModeCallTaxi         ModeTag = "CALL_TAXI"
	ModeFerry            ModeTag = "FERRY"
	ModeNightBus         ModeTag = "NIGHT_BUS"
)

// ModeOrder is the fixed order FlagsToTags emits tags in.
var ModeOrder = []ModeTag{
	ModeBus,
	ModeTrain,
	ModeSuburbanRail,
	ModeSubway,
	ModeLocalRail,
	ModeLongDistanceRail,
	ModeCallTaxi,
	ModeFerry,
	ModeNightBus,
}

// provider filter vocabulary of departureList.serviceTypes
var filterValues = map[ModeTag]string{
	ModeBus:              "BUS",
	ModeTrain:            "ZUG",
	ModeSuburbanRail:     "SBAHN",
	ModeSubway:           "UBAHN",
	ModeLocalRail:        "AKN",
	ModeLongDistanceRail: "FERNBAHN",
	ModeCallTaxi:         "AST",
	ModeFerry:            "FAEHRE",
	ModeNightBus:         "NACHTBUS",
}

// flag names accepted from configuration, after normalizeFlag
var flagAliases = map[string]ModeTag{
	"bus":              ModeBus,
	"train":            ModeTrain,
	"zug":              ModeTrain,
	"suburbanrail":     ModeSuburbanRail,
	"sbahn":            ModeSuburbanRail,
	"subway":           ModeSubway,
	"ubahn":            ModeSubway,
	"localrail":        ModeLocalRail,
	"akn":              ModeLocalRail,
	"longdistancerail": ModeLongDistanceRail,
	"fernbahn":         ModeLongDistanceRail,
	"calltaxi":         ModeCallTaxi,
	"ast":              ModeCallTaxi,
	"ferry":            ModeFerry,
	"faehre":           ModeFerry,
	"nightbus":         ModeNightBus,
	"nachtbus":         ModeNightBus,
}

// FilterValue returns the provider's name for the mode.
func (m ModeTag) FilterValue() string {
	return filterValues[m]
}

// ModeFromFlag maps a configuration flag name to its ModeTag.
func ModeFromFlag(name string) (ModeTag, bool) {
	tag, ok := flagAliases[normalizeFlag(name)]
	return tag, ok
}

// FlagsToTags returns the tags whose flag is true, in ModeOrder. Unknown flags
// are ignored. An empty result means no filter.
func FlagsToTags(flags map[string]bool) []ModeTag {
	selected := make(map[ModeTag]bool, len(flags))
	for name, enabled := range flags {
		if !enabled {
			continue
		}
		if tag, ok := ModeFromFlag(name); ok {
			selected[tag] = true
		}
	}

	tags := make([]ModeTag, 0, len(selected))
	for _, tag := range ModeOrder {
		if selected[tag] {
			tags = append(tags, tag)
		}
	}
	return tags
}

// serviceTypeFilter returns nil for an empty tag set so the field is omitted
// from the request body.
func serviceTypeFilter(tags []ModeTag) []string {
	if len(tags) == 0 {
		return nil
	}
	values := make([]string, 0, len(tags))
	for _, tag := range tags {
		if v := tag.FilterValue(); v != "" {
			values = append(values, v)
		}
	}
	return values
}

func normalizeFlag(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	return strings.NewReplacer("_", "", "-", "", " ", "").Replace(name)
}

// classifyLine maps a departure's line type onto a ModeTag.
func classifyLine(t lineType) ModeTag {
	short := strings.ToUpper(strings.TrimSpace(t.ShortInfo))

	switch strings.ToUpper(t.SimpleType) {
	case "SHIP":
		return ModeFerry
	case "TRAIN":
		switch short {
		case "U":
			return ModeSubway
		case "S":
			return ModeSuburbanRail
		case "A":
			return ModeLocalRail
		case "ICE", "IC", "EC", "ECE", "RJ", "NJ", "FLX":
			return ModeLongDistanceRail
		}
		return ModeTrain
	case "BUS":
		switch {
		case short == "AST":
			return ModeCallTaxi
		case strings.HasPrefix(short, "NACHT"):
			return ModeNightBus
		}
		return ModeBus
	}

	switch short {
	case "U":
		return ModeSubway
	case "S":
		return ModeSuburbanRail
	case "AST":
		return ModeCallTaxi
	}
	return ModeBus
}
