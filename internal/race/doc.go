// Package race provides the data model for BOATRACE odds and schedules.
//
// The race package defines the odds and schedule records produced by the
// extraction core, the fixed set of venues, the per-cycle AsOf date context
// and the best-race selection policy used by the dashboard board. All times
// are expressed in the venue timezone (Asia/Tokyo).
package race
