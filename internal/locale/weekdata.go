package locale

import (
	"time"

	"golang.org/x/text/language"
)

// firstDayByRegion follows CLDR weekData; regions not listed start on Monday
var firstDayByRegion = map[string]time.Weekday{
	// Sunday
	"AG": time.Sunday, "AS": time.Sunday, "BD": time.Sunday, "BR": time.Sunday,
	"BS": time.Sunday, "BT": time.Sunday, "BW": time.Sunday, "BZ": time.Sunday,
	"CA": time.Sunday, "CN": time.Sunday, "CO": time.Sunday, "DM": time.Sunday,
	"DO": time.Sunday, "ET": time.Sunday, "GT": time.Sunday, "GU": time.Sunday,
	"HK": time.Sunday, "HN": time.Sunday, "ID": time.Sunday, "IL": time.Sunday,
	"IN": time.Sunday, "JM": time.Sunday, "JP": time.Sunday, "KE": time.Sunday,
	"KH": time.Sunday, "KR": time.Sunday, "LA": time.Sunday, "MH": time.Sunday,
	"MM": time.Sunday, "MO": time.Sunday, "MT": time.Sunday, "MX": time.Sunday,
	"MZ": time.Sunday, "NI": time.Sunday, "NP": time.Sunday, "PA": time.Sunday,
	"PE": time.Sunday, "PH": time.Sunday, "PK": time.Sunday, "PR": time.Sunday,
	"PT": time.Sunday, "PY": time.Sunday, "SA": time.Sunday, "SG": time.Sunday,
	"SV": time.Sunday, "TH": time.Sunday, "TT": time.Sunday, "TW": time.Sunday,
	"UM": time.Sunday, "US": time.Sunday, "VE": time.Sunday, "VI": time.Sunday,
	"WS": time.Sunday, "YE": time.Sunday, "ZA": time.Sunday, "ZW": time.Sunday,

	// Friday
	"MV": time.Friday,

	// Saturday
	"AE": time.Saturday, "AF": time.Saturday, "BH": time.Saturday, "DJ": time.Saturday,
	"DZ": time.Saturday, "EG": time.Saturday, "IQ": time.Saturday, "IR": time.Saturday,
	"JO": time.Saturday, "KW": time.Saturday, "LY": time.Saturday, "OM": time.Saturday,
	"QA": time.Saturday, "SD": time.Saturday, "SY": time.Saturday,
}

// firstWeekdayFor resolves the week start from the tag's region. Tags without
// an explicit region use the likely region x/text infers ("en" -> US, "de" -> DE).
func firstWeekdayFor(tag language.Tag) time.Weekday {
	region, confidence := tag.Region()
	if confidence == language.No {
		return time.Monday
	}
	if wd, ok := firstDayByRegion[region.String()]; ok {
		return wd
	}
	return time.Monday
}
