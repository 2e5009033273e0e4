package search

// Scoring weights. These are tuned values, not incidental: every signal the
// engine scores carries a named constant here so the weights can move
// without touching control flow.

// Lexical (keyword stage) signals, additive.
const (
	baseScore = 10.0

	// Full-field equality of title or body to the raw query.
	exactFieldBonus = 100.0

	// Normalized query found as a contiguous phrase.
	phraseTitleBonus = 50.0
	phraseBodyBonus  = 30.0

	// Raw query as a title substring; each filtered term in the title.
	titleSubstringBonus = 25.0
	titleTermBonus      = 8.0

	// Subject matches weigh less than title matches.
	subjectMatchBonus = 15.0
	subjectTermBonus  = 5.0

	// Term frequency in the body, length-discounted and capped.
	termFrequencyWeight = 2.0
	termFrequencyCap    = 20.0

	// Fraction of filtered terms present anywhere in title/body.
	coverageWeight = 10.0

	// log10(occurrences+1) of the raw query in the body.
	occurrenceWeight = 5.0
)

// Semantic stage.
const (
	// Added as similarity^semanticExponent * semanticWeight.
	semanticWeight   = 40.0
	semanticExponent = 0.8

	// Chunk weights decay as chunkDecay^rank, best chunk first.
	chunkDecay = 0.7

	// A semantic hit this strong replaces the lexical snippet.
	snippetReplaceThreshold = 0.8
)

// Ranking boosts, additive unless noted.
const (
	exactTitleRawBonus        = 80.0
	exactTitleNormalizedBonus = 60.0

	titlePrefixBonus     = 30.0
	titlePrefixTermBonus = 10.0

	subjectEqualBonus    = 20.0
	subjectContainsBonus = 8.0

	matchCountWeight = 5.0

	// Query explicitly names the candidate's unit ("unit 3 notes").
	explicitUnitBonus = 70.0
	// Title carries "unit {N}" for the candidate's resolved unit.
	titleUnitBonus = 10.0

	// Freshness tiers.
	freshWeekBonus    = 15.0
	freshMonthBonus   = 8.0
	freshQuarterBonus = 3.0

	// Quality multipliers by body length.
	tinyBodyPenalty  = 0.5 // < 100 chars
	shortBodyPenalty = 0.8 // < 500 chars
	longBodyBonus    = 1.1 // > 5000 chars

	// Matched by both retrieval stages.
	hybridMultiplier = 1.3
)

// Body length thresholds for the quality multiplier.
const (
	tinyBodyLen  = 100
	shortBodyLen = 500
	longBodyLen  = 5000
)
