package engine

// Sign-magnitude scoring constants: scores are disc-difference
// values and fit in an int8 at rest, but are carried as int32 throughout
// search to avoid overflow in weighted move-ordering sums; only the
// transposition table casts down to int8.
const (
	ScoreMin = -64
	ScoreMax = 64
	ScoreInf = 127 // ±ScoreInf: unproven/unbounded score
)

// NodeType is a plain 3-value enum with no arithmetic: PV nodes have an exact score, Cut nodes failed
// high (score is a lower bound), All nodes failed low (score is an upper
// bound) — the classical alpha-beta node classification.
type NodeType int

const (
	NodePV NodeType = iota
	NodeCut
	NodeAll
)

func (t NodeType) String() string {
	switch t {
	case NodePV:
		return "PV"
	case NodeCut:
		return "CUT"
	case NodeAll:
		return "ALL"
	default:
		return "?"
	}
}

// MaxPly bounds search recursion depth: the empties count never exceeds
// 60 for Othello, but iterative deepening and extensions can push a few
// plies further, so this is sized generously above that ceiling.
const MaxPly = 96

// Selectivity is the confidence level of forward-pruning decisions: level
// 5 (NoSelectivity) is exact; lower levels trade accuracy for speed via
// ProbCut.
type Selectivity int

const (
	Selectivity73 Selectivity = iota
	Selectivity87
	Selectivity95
	Selectivity98
	Selectivity99
	NoSelectivity // exact
)

// selectivityTable holds the (percentage, t-value) pair for each level —
// kept identical across any port to reproduce score-for-score.
// t is the number of standard deviations of ProbCut's sampled error the
// shallow search's margin must clear.
var selectivityTable = [...]struct {
	percent float64
	t       float64
}{
	Selectivity73: {73.0, 1.1},
	Selectivity87: {87.0, 1.5},
	Selectivity95: {95.0, 2.0},
	Selectivity98: {98.0, 2.6},
	Selectivity99: {99.0, 3.3},
	NoSelectivity: {100.0, 1e9}, // "∞ ≡ exact": never accept a ProbCut cutoff
}

// TValue returns the selectivity level's ProbCut confidence multiplier.
func (s Selectivity) TValue() float64 {
	return selectivityTable[s].t
}

// Percent returns the selectivity level's nominal confidence percentage.
func (s Selectivity) Percent() float64 {
	return selectivityTable[s].percent
}

func (s Selectivity) String() string {
	if s == NoSelectivity {
		return "exact"
	}
	return "~" + formatPercent(selectivityTable[s].percent)
}

func formatPercent(p float64) string {
	return trimTrailingZero(p) + "%"
}

func trimTrailingZero(p float64) string {
	i := int(p)
	if float64(i) == p {
		return itoa(i)
	}
	return itoa(i) + "." + itoa(int(p*10)%10)
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [12]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}
