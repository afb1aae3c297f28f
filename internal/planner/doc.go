// Package planner owns global path planning: the A* grid search and the
// goal-execution protocol that hands a finished plan to the local-navigation
// executor.
//
// Responsibilities: obstacle-aware search over a (smudged) costmap, start
// and goal adjustment, plan resampling, visualization emission and optional
// plan-run persistence. Key types: Planner, AstarPlanner, Params.
//
// Dependency rule: planner may depend on geom, costmap, navpath and viz,
// never on monitor or planstore; persistence goes through the RunRecorder
// interface.
package planner
