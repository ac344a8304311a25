package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		label    string
		expected string
	}{
		{"TORNADO", CategoryTornado},
		{"TORNDAO", CategoryTornado},
		{"COLD AIR FUNNEL", CategoryTornado},
		{"TSTM WIND", CategoryStorm},
		{"THUNDERSTORM WINDS", CategoryStorm},
		{"TROPICAL STORM GORDON", CategoryStorm},
		{"HURRICANE OPAL", CategoryStorm},
		{"LIGHTNING", CategoryStorm},
		{"MARINE HAIL", CategoryHail},
		{"SMALL HAIL", CategoryHail},
		{"FLASH FLOOD", CategoryFlood},
		{"URBAN/SML STREAM FLD", CategoryFlood},
		{"EXCESSIVE RAINFALL", CategoryFlood},
		{"STORM SURGE", CategoryStormSurge},
		{"STORM SURGE/TIDE", CategoryStormSurge},
		{"HEAVY SEAS", CategoryHighSeas},
		{"RIP CURRENT", CategoryHighSeas},
		{"HIGH WIND", CategoryWind},
		{"WND", CategoryWind},
		{"MICROBURST", CategoryWind},
		{"HEAVY SNOW", CategorySnow},
		{"BLIZZARD", CategorySnow},
		{"AVALANCHE", CategorySnow},
		{"EXTREME COLD", CategoryCold},
		{"HIGH WAVES", CategoryHighSeas},
		{"FROST/FREEZE", CategoryCold},
		{"ICE STORM", CategoryIce},
		{"BLACK ICE", CategoryIce},
		{"SLEET", CategorySleet},
		{"EXCESSIVE HEAT", CategoryHeat},
		{"RECORD HEAT", CategoryHeat},
		{"WARM WEATHER", CategoryHeat},
		{"MUD SLIDE", CategoryMudslide},
		{"LANDSLIDE", CategoryMudslide},
		{"WILD/FOREST FIRE", CategoryFire},
		{"DENSE SMOKE", CategoryFire},
		{"DENSE FOG", CategoryFog},
		{"DAM BREAK", CategoryDam},
		{"DROUGHT", CategoryDrought},
		{"EXCESSIVELY DRY", CategoryDrought},
		{"DUST DEVIL", CategoryDust},
		{"VOLCANIC ASH", CategoryVolcanic},
		{"WATERSPOUT", CategoryWaterspout},
		{"Summary of March 14", CategorySummary},
		{"Monthly precipitation", CategoryFlood}, // "precip" outranks "monthly"
	}

	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			assert.Equal(t, tt.expected, Classify(tt.label))
		})
	}
}

// Rule order is load-bearing: labels containing keywords from two rules must
// classify by whichever rule comes first in the table, not the more specific
// one if it is later.
func TestClassify_RuleOrder(t *testing.T) {
	// "surge" (Storm Surge) precedes "wind" (Wind).
	assert.Equal(t, CategoryStormSurge, Classify("STORM SURGE/HIGH WIND"))
	// "tornado" precedes "spout" (Waterspout).
	assert.Equal(t, CategoryTornado, Classify("WATERSPOUT TORNADO"))
	// Inherited quirk, preserved deliberately: Heat precedes Drought.
	assert.Equal(t, CategoryHeat, Classify("HEATWAVE/DROUGHT"))
	// "hail" precedes "wind".
	assert.Equal(t, CategoryHail, Classify("HAIL/WIND"))
}

func TestClassify_Fallback(t *testing.T) {
	// Unmatched labels become their own title-cased singleton category.
	assert.Equal(t, "Other", Classify("OTHER"))
	assert.Equal(t, "Apache County", Classify("APACHE COUNTY"))
	assert.Equal(t, "Unknown", Classify(""))
	assert.Equal(t, "Unknown", Classify("   "))
}

// Classification is deterministic and total: repeated calls agree and every
// label yields a non-empty category.
func TestClassify_TotalAndDeterministic(t *testing.T) {
	labels := []string{"TORNADO", "gibberish label", "", "?", "RECORD COLD AND HIGH WIND"}
	for _, label := range labels {
		first := Classify(label)
		assert.NotEmpty(t, first, "label %q produced an empty category", label)
		assert.Equal(t, first, Classify(label), "label %q classified inconsistently", label)
	}
}
