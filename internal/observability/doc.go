// Package observability provides the planner's event log, the metrics
// derived from it, and the alert engine that watches the task snapshot
// for overdue work.
package observability
