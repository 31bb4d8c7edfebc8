package sentiment

// lexicon maps words to integer valence in the AFINN style: -5 (most
// negative) to +5 (most positive). This is the subset of the AFINN-165
// word list that covers the emotional vocabulary of free-text check-ins;
// it is a data table, not an NLP model.
var lexicon = map[string]int{
	// strongly positive
	"amazing":      4,
	"awesome":      4,
	"breathtaking": 5,
	"brilliant":    4,
	"ecstatic":     4,
	"fabulous":     4,
	"fantastic":    4,
	"outstanding":  5,
	"superb":       5,
	"thrilled":     5,
	"wonderful":    4,
	"wow":          4,

	// positive
	"accomplish":  3,
	"admire":      3,
	"beautiful":   3,
	"best":        3,
	"calm":        2,
	"cheerful":    3,
	"comfortable": 2,
	"confident":   2,
	"delighted":   3,
	"eager":       2,
	"energetic":   2,
	"excellent":   3,
	"excited":     3,
	"fun":         4,
	"glad":        3,
	"good":        3,
	"grateful":    3,
	"great":       3,
	"happy":       3,
	"hope":        2,
	"hopeful":     2,
	"inspired":    2,
	"joy":         3,
	"joyful":      3,
	"love":        3,
	"loved":       3,
	"lucky":       3,
	"motivated":   2,
	"optimistic":  2,
	"peaceful":    2,
	"perfect":     3,
	"pleased":     3,
	"proud":       2,
	"relaxed":     2,
	"relieved":    2,
	"satisfied":   2,
	"strong":      2,
	"succeed":     3,
	"success":     2,
	"successful":  3,
	"thankful":    2,
	"win":         4,
	"winning":     4,

	// mildly positive
	"better":    2,
	"fine":      2,
	"improve":   2,
	"improved":  2,
	"interested": 2,
	"nice":      3,
	"okay":      2,
	"progress":  2,
	"ready":     1,
	"safe":      1,
	"useful":    2,

	// mildly negative
	"bored":     -2,
	"concerned": -2,
	"confused":  -2,
	"doubt":     -1,
	"doubtful":  -1,
	"slow":      -2,
	"tired":     -2,
	"unsure":    -1,
	"weak":      -2,
	"worried":   -3,
	"worry":     -3,

	// negative
	"afraid":       -2,
	"alone":        -2,
	"angry":        -3,
	"anxious":      -2,
	"bad":          -3,
	"broke":        -2,
	"cry":          -1,
	"crying":       -2,
	"depressed":    -2,
	"difficult":    -1,
	"disappointed": -2,
	"exhausted":    -2,
	"fail":         -2,
	"failed":       -2,
	"failure":      -2,
	"fear":         -2,
	"frustrated":   -2,
	"hard":         -1,
	"hate":         -3,
	"hurt":         -2,
	"lonely":       -2,
	"lost":         -3,
	"mad":          -3,
	"miserable":    -3,
	"overwhelmed":  -2,
	"pain":         -2,
	"sad":          -2,
	"scared":       -2,
	"stress":       -1,
	"stressed":     -2,
	"struggle":     -2,
	"struggling":   -2,
	"stuck":        -2,
	"unhappy":      -2,
	"upset":        -2,

	// strongly negative
	"awful":       -3,
	"devastated":  -3,
	"disaster":    -2,
	"hopeless":    -2,
	"horrible":    -3,
	"terrible":    -3,
	"worst":       -3,
	"worthless":   -2,
}
