// Package api serves the proxy API over HTTP.
//
// Every response uses the envelope {success, data} or {success: false, error}.
// Upstream and content problems are reported inside data as hasRace or
// hasSchedule false; only malformed request parameters produce client errors.
// The legacy worker paths (/api/odds, /api/race-schedule,
// /api/health, /api/send-alert) are served as aliases.
package api
