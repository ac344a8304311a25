package domain

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Canonical category labels produced by Classify. The raw EVTYPE vocabulary
// is folded onto this set so near-synonym spellings do not fragment the
// ranking signal.
const (
	CategoryStorm      = "Storm"
	CategoryHail       = "Hail"
	CategoryFlood      = "Flood"
	CategoryStormSurge = "Storm Surge"
	CategoryTornado    = "Tornado"
	CategoryHighSeas   = "High Seas"
	CategoryWind       = "Wind"
	CategorySnow       = "Snow"
	CategoryCold       = "Cold"
	CategoryIce        = "Ice"
	CategorySleet      = "Sleet"
	CategoryHeat       = "Heat"
	CategoryMudslide   = "Mudslide"
	CategoryFire       = "Fire"
	CategoryFog        = "Fog"
	CategoryDam        = "Dam"
	CategoryDrought    = "Drought"
	CategoryDust       = "Dust"
	CategoryVolcanic   = "Volcanic"
	CategoryWaterspout = "Waterspout"
	CategorySummary    = "Summary"
)

// classifyRule maps a disjunction of lowercase keywords to a canonical
// category. A label matches when it contains any keyword as a substring.
type classifyRule struct {
	keywords []string
	category string
}

// classifyRules is evaluated in order with first-match-wins semantics, so
// position is load-bearing. Generic keywords sit below the specific rules
// whose labels also contain them: "surge" before "wind" so
// "STORM SURGE/HIGH WIND" is Storm Surge, "spout" after "tornado" so funnel
// reports stay Tornado, Heat before Drought so "HEATWAVE/DROUGHT" keeps the
// inherited Heat precedence.
var classifyRules = []classifyRule{
	{[]string{"tstm", "thunder", "tropical storm", "winter storm", "hurricane", "typhoon", "lightning", "lighting", "ligntning"}, CategoryStorm},
	{[]string{"hail"}, CategoryHail},
	{[]string{"flood", "fld", "rain", "precip", "shower", "stream", "high water", "wet"}, CategoryFlood},
	{[]string{"surge"}, CategoryStormSurge},
	{[]string{"tornado", "torndao", "funnel"}, CategoryTornado},
	{[]string{"seas", "surf", "tide", "tsunami", "rip current", "marine", "coastal", "high waves", "rogue wave", "swell", "seiche"}, CategoryHighSeas},
	{[]string{"wind", "wnd", "gust", "microburst", "downburst", "burst", "turbulence"}, CategoryWind},
	{[]string{"snow", "blizzard", "avalanche", "avalance", "winter weather", "wintry"}, CategorySnow},
	{[]string{"cold", "chill", "freez", "frost", "hypothermia", "low temperature", "record low", "cool"}, CategoryCold},
	{[]string{"ice", "icy", "glaze"}, CategoryIce},
	{[]string{"sleet", "mixed precipitation"}, CategorySleet},
	{[]string{"heat", "warm", "hot", "high temperature", "record high", "hyperthermia"}, CategoryHeat},
	{[]string{"mud", "landslide", "landslump", "rock slide", "slide"}, CategoryMudslide},
	{[]string{"fire", "smoke"}, CategoryFire},
	{[]string{"fog", "vog", "haze"}, CategoryFog},
	{[]string{"dam break", "dam failure"}, CategoryDam},
	{[]string{"drought", "dry", "driest"}, CategoryDrought},
	{[]string{"dust"}, CategoryDust},
	{[]string{"volcan"}, CategoryVolcanic},
	{[]string{"spout"}, CategoryWaterspout},
	{[]string{"summary", "monthly"}, CategorySummary},
}

// canonicalCategories is the set of categories the rule table can produce.
var canonicalCategories = func() map[string]bool {
	set := make(map[string]bool, len(classifyRules))
	for _, rule := range classifyRules {
		set[rule.category] = true
	}
	return set
}()

// IsCanonicalCategory reports whether the category came from the rule table,
// as opposed to the title-cased singleton fallback.
func IsCanonicalCategory(category string) bool {
	return canonicalCategories[category]
}

// Classify maps a free-text event label onto its canonical category using
// the ordered rule table. Matching is case-insensitive; the first rule with
// any matching keyword wins. Labels that match no rule become their own
// title-cased singleton category, so Classify is total: every label yields a
// non-empty category.
func Classify(label string) string {
	normalized := strings.ToLower(strings.TrimSpace(label))
	for _, rule := range classifyRules {
		for _, kw := range rule.keywords {
			if strings.Contains(normalized, kw) {
				return rule.category
			}
		}
	}
	if normalized == "" {
		return "Unknown"
	}
	// Casers carry per-use state, so build one per call rather than sharing.
	return cases.Title(language.AmericanEnglish).String(normalized)
}
