package planner

// Params tunes the global planner. Zero values are replaced with the
// defaults below by normalize(), so a partially filled struct is safe.
type Params struct {
	// Conservativism is the obstacle inflation radius in cells applied
	// before searching. Larger keeps the robot further from obstacles at
	// the price of closing narrow passages.
	Conservativism int

	// PreserveUnknown keeps unknown cells distinguishable through
	// inflation; when false they are treated as free unless inflated.
	PreserveUnknown bool

	// UnknownCost is the traversal cost assumed for unknown cells during
	// search. Only relevant with PreserveUnknown=true, since otherwise
	// smudge has already rewritten them.
	UnknownCost float64

	// CostPenalty scales how strongly cell cost slows traversal: entering
	// a cell multiplies the move distance by 1 + cost*CostPenalty.
	CostPenalty float64

	// ResampleSpacing is the waypoint spacing in meters of the returned
	// plan.
	ResampleSpacing float64

	// MaxExpansions bounds the number of node expansions per search;
	// 0 means unbounded. An exhausted budget counts as "no path".
	MaxExpansions int

	// NearestFreeRadius bounds the BFS that moves a start or goal out of
	// an inflated obstacle, in cells.
	NearestFreeRadius int
}

// DefaultParams returns the planner defaults.
func DefaultParams() Params {
	return Params{
		Conservativism:    8,
		PreserveUnknown:   false,
		UnknownCost:       0.2,
		CostPenalty:       4.0,
		ResampleSpacing:   0.1,
		MaxExpansions:     0,
		NearestFreeRadius: 20,
	}
}

func (p Params) normalize() Params {
	d := DefaultParams()
	if p.Conservativism < 0 {
		p.Conservativism = 0
	}
	if p.UnknownCost <= 0 {
		p.UnknownCost = d.UnknownCost
	}
	if p.UnknownCost > 1 {
		p.UnknownCost = 1
	}
	if p.CostPenalty <= 0 {
		p.CostPenalty = d.CostPenalty
	}
	if p.ResampleSpacing <= 0 {
		p.ResampleSpacing = d.ResampleSpacing
	}
	if p.MaxExpansions < 0 {
		p.MaxExpansions = 0
	}
	if p.NearestFreeRadius <= 0 {
		p.NearestFreeRadius = d.NearestFreeRadius
	}
	return p
}
