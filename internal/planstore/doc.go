// Package planstore persists planning runs to SQLite so that plan history
// survives restarts and can be inspected offline.
//
// Responsibilities: schema management, run insertion and recent-run queries.
// The store implements planner.RunRecorder; everything else in the system
// treats persistence as optional.
package planstore
