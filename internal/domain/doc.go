// Package domain models NOAA Storm Events damage records and the pure
// normalization, classification, and ranking logic applied to them.
//
// # Data Source
//
// Records originate from the NOAA National Climatic Data Center Storm Events
// database. The upstream collector service fetches and decompresses the
// archive, parses the CSV, and publishes each row as flat string-valued JSON
// to the Kafka source topic. Only the harm-related columns are carried:
// EVTYPE, FATALITIES, INJURIES, PROPDMG, PROPDMGEXP, CROPDMG, CROPDMGEXP.
//
// # Damage Magnitude Encoding
//
// Property and crop damage are split across two columns: a numeric
// coefficient (PROPDMG, CROPDMG) and an exponent code (PROPDMGEXP,
// CROPDMGEXP) indicating a power-of-ten scale factor. Decades of manual data
// entry left the exponent column inconsistently encoded:
//
//	"B"/"b"      billions        coefficient × 1e9
//	"M"/"m"      millions        coefficient × 1e6
//	"K"/"k"      thousands       coefficient × 1e3
//	"H"/"h"      hundreds        coefficient × 1e2
//	"0".."9"     literal digit   coefficient × 10^digit
//	"+" "-" "?"  qualifier       magnitude discarded (0)
//	"<" ">"      qualifier       magnitude discarded (0)
//	"" / blank   unreported      magnitude discarded (0)
//
// Qualifier and blank codes mark low-confidence entries; those magnitudes
// are dropped rather than guessed. See [DecodeMagnitude].
//
// # Event Type Vocabulary
//
// EVTYPE is free text with nearly a thousand distinct spellings for a few
// dozen physical phenomena ("EXCESSIVE HEAT", "RECORD HEAT", "WARM", ...).
// [Classify] folds them onto a small canonical category set via an ordered
// keyword rule table; the table order is part of the contract, because many
// labels contain keywords from several rules ("STORM SURGE/HIGH WIND" must
// hit the Storm Surge rule, not the Wind rule). Labels matching no rule
// become their own title-cased singleton category. One inherited quirk is
// deliberate: Heat precedes Drought, so "HEATWAVE/DROUGHT" counts as Heat.
//
// # Aggregation and Ranking
//
// [Aggregator] sums the four harm metrics (fatalities, injuries, property
// damage, crop damage) per category. The fold is commutative and
// associative, so shards may be aggregated independently and combined with
// [Aggregator.Merge]. [TopKFloor] and [FilterDominant] select the categories
// that dominate any metric, with ties at the K-th value included.
// [Percentages] converts sums into shares of the row set it is given; a
// metric that totals zero across that set yields nil shares, distinguishing
// "metric inapplicable" from "zero contribution".
package domain
