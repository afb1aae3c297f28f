package planner

import (
	"errors"
	"fmt"

	"github.com/mosswood-robotics/gridnav/internal/geom"
)

// ErrNoPath reports that no traversable route to the goal exists. It is an
// expected outcome, not a fault: callers log it and move on.
var ErrNoPath = errors.New("no path found")

// InvalidGoalError rejects a goal before search begins: non-finite
// coordinates or a position outside the costmap.
type InvalidGoalError struct {
	Goal   geom.Vector
	Reason string
}

func (e *InvalidGoalError) Error() string {
	return fmt.Sprintf("invalid goal %s: %s", e.Goal, e.Reason)
}
