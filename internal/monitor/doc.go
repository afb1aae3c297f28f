// Package monitor exposes the navigation state over HTTP for debugging and
// observation: JSON endpoints for the latest pose, goal, path and costmap,
// plan-run history and summary statistics, plus a chart endpoint that renders
// the current plan as an ECharts scatter page.
//
// The server is a passive consumer: it subscribes to the planner's
// visualization bus and caches the most recent event per name. It never
// drives planning.
package monitor
