// Package scraper fetches race index and odds pages from the BOATRACE website.
//
// The scraper only transports page text. It sends a browser-like User-Agent,
// bounds every request by the caller's context and a client timeout, and
// reports non-200 responses as ErrUpstreamStatus. Interpreting the HTML is
// left to the extract package.
package scraper
