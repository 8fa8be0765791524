// Package plan filters and groups model operators into an ordered execution
// plan of merge groups, so that same-kind operators execute as single batched
// operations instead of one-by-one.
package plan
