package planner

import (
	"context"
	"errors"
	"log"
	"math"
	"time"

	"github.com/mosswood-robotics/gridnav/internal/costmap"
	"github.com/mosswood-robotics/gridnav/internal/geom"
	"github.com/mosswood-robotics/gridnav/internal/navpath"
	"github.com/mosswood-robotics/gridnav/internal/viz"
)

// LocalNav drives the robot along a path. It may block for the duration of
// the physical traversal and must return promptly once ctx is cancelled.
// goalHeading, when non-nil, is the desired final orientation in radians.
type LocalNav func(ctx context.Context, path navpath.Path, goalHeading *float64) bool

// Planner is the goal-acceptance capability: compute a path to a world-frame
// goal. ErrNoPath is the expected negative outcome; *InvalidGoalError rejects
// malformed goals.
type Planner interface {
	Plan(goal geom.Vector) (navpath.Path, error)
}

// PlanRun is one recorded planning attempt.
type PlanRun struct {
	RunID            string
	CreatedUnixNanos int64
	StartX, StartY   float64
	GoalX, GoalY     float64
	Outcome          string // "path_found", "no_path", "invalid_goal"
	ExpandedNodes    int
	PathPoints       int
	PathLengthM      float64
	MinClearanceM    float64
	DurationNanos    int64
}

// Run outcomes.
const (
	OutcomePathFound   = "path_found"
	OutcomeNoPath      = "no_path"
	OutcomeInvalidGoal = "invalid_goal"
)

// RunRecorder persists plan runs. Implemented by planstore.Store.
type RunRecorder interface {
	RecordRun(run *PlanRun) error
}

// AstarPlanner wires the costmap, the A* search and the path pipeline
// together. It holds no mutable state of its own: every Plan call reads
// fresh snapshots through the injected accessors, so concurrent calls are
// safe as long as the accessors are.
type AstarPlanner struct {
	viz.Emitter

	// GetCostmap returns the current costmap snapshot. The planner only
	// derives smudged copies from it; the snapshot itself is never written.
	GetCostmap func() *costmap.Grid

	// GetRobotPos returns the current robot position in the costmap's
	// world frame.
	GetRobotPos func() geom.Vector

	// SetLocalNav hands a finished plan to the local-navigation executor.
	SetLocalNav LocalNav

	Params Params

	// Recorder persists plan runs when set; nil disables persistence.
	Recorder RunRecorder
}

// NewAstarPlanner builds a planner around the three injected accessors.
func NewAstarPlanner(getCostmap func() *costmap.Grid, getRobotPos func() geom.Vector, setLocalNav LocalNav, params Params) *AstarPlanner {
	p := &AstarPlanner{
		GetCostmap:  getCostmap,
		GetRobotPos: getRobotPos,
		SetLocalNav: setLocalNav,
		Params:      params.normalize(),
	}
	if p.Recorder == nil {
		log.Printf("[AstarPlanner] created without a run recorder: plan history disabled")
	}
	return p
}

// WithRecorder attaches a plan-run recorder and returns the planner.
func (p *AstarPlanner) WithRecorder(r RunRecorder) *AstarPlanner {
	p.Recorder = r
	return p
}

// Plan computes a path from the robot's current position to the goal over an
// obstacle-inflated copy of the current costmap, resampled to the configured
// spacing. Visualization events are emitted in the order costmap, goal, path.
func (p *AstarPlanner) Plan(goal geom.Vector) (navpath.Path, error) {
	began := time.Now()
	params := p.Params.normalize()

	goal = goal.To2D()
	if !goal.IsFinite() {
		return navpath.Path{}, &InvalidGoalError{Goal: goal, Reason: "non-finite coordinates"}
	}

	pos := p.GetRobotPos().To2D()
	grid := p.GetCostmap().Smudge(params.Conservativism, params.PreserveUnknown)

	p.Vis("planner_costmap", grid)
	p.Vis("target", goal)

	goalCell := grid.WorldToGrid(goal)
	if !grid.InBounds(goalCell.X, goalCell.Y) {
		err := &InvalidGoalError{Goal: goal, Reason: "outside costmap bounds"}
		p.record(began, pos, goal, OutcomeInvalidGoal, searchResult{}, navpath.Path{}, nil)
		return navpath.Path{}, err
	}
	startCell := grid.WorldToGrid(pos)

	// A start or goal sitting inside the inflation margin is moved to the
	// nearest free cell rather than failing outright.
	startCell, startOK := nearestFreeCell(grid, startCell, params.NearestFreeRadius)
	goalCell, goalOK := nearestFreeCell(grid, goalCell, params.NearestFreeRadius)
	if !startOK || !goalOK {
		log.Printf("[AstarPlanner] no free cell near start=%v goal=%v", startOK, goalOK)
		p.record(began, pos, goal, OutcomeNoPath, searchResult{}, navpath.Path{}, nil)
		return navpath.Path{}, ErrNoPath
	}

	result, found := astarSearch(grid, startCell, goalCell, params)
	if !found {
		log.Printf("[AstarPlanner] no path found to goal %s (expanded %d nodes)", goal, result.expanded)
		p.record(began, pos, goal, OutcomeNoPath, result, navpath.Path{}, nil)
		return navpath.Path{}, ErrNoPath
	}

	waypoints := make([]geom.Vector, len(result.cells))
	for i, c := range result.cells {
		waypoints[i] = grid.GridToWorld(c)
	}
	path := navpath.New(waypoints...).Resample(params.ResampleSpacing)

	p.Vis("path", path)
	p.record(began, pos, goal, OutcomePathFound, result, path, grid)

	return path, nil
}

// SetGoal plans a path to the goal and, on success, forwards it with the
// caller's cancellation context and optional final heading to the local
// navigation executor, returning the executor's result. A "no path" outcome
// returns false with a nil error and never touches the executor.
func (p *AstarPlanner) SetGoal(ctx context.Context, goal geom.Vector, goalHeading *float64) (bool, error) {
	path, err := p.Plan(goal)
	if err != nil {
		if errors.Is(err, ErrNoPath) {
			log.Printf("[AstarPlanner] no path found to the goal")
			return false, nil
		}
		return false, err
	}
	return p.SetLocalNav(ctx, path, goalHeading), nil
}

// record persists the run when a recorder is attached. Failures are logged,
// never propagated: persistence must not fail planning.
func (p *AstarPlanner) record(began time.Time, pos, goal geom.Vector, outcome string, result searchResult, path navpath.Path, grid *costmap.Grid) {
	if p.Recorder == nil {
		return
	}
	run := &PlanRun{
		CreatedUnixNanos: began.UnixNano(),
		StartX:           pos.X,
		StartY:           pos.Y,
		GoalX:            goal.X,
		GoalY:            goal.Y,
		Outcome:          outcome,
		ExpandedNodes:    result.expanded,
		PathPoints:       path.Len(),
		PathLengthM:      path.Length(),
		DurationNanos:    time.Since(began).Nanoseconds(),
	}
	if grid != nil && !path.IsEmpty() {
		clearance := costmap.NewClearanceIndex(grid).MinClearance(path.Points())
		if !math.IsInf(clearance, 1) {
			run.MinClearanceM = clearance
		}
	}
	if err := p.Recorder.RecordRun(run); err != nil {
		log.Printf("[AstarPlanner] failed to record plan run: %v", err)
	}
}
