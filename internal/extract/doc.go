// Package extract recovers structured odds and schedule data from upstream HTML.
//
// Extraction is best-effort and never fails loudly. A page is first checked
// for known "no race" markers by the Classifier. Odds ranges are then pulled
// by an ordered Cascade of OddsStrategy tiers, each tried only when the
// previous tier found fewer than six plausible ranges. Vote numbers scraped
// from generic table cells are paired to slots by a VotePolicy. Every outcome
// that is not a complete set of six entries is reported as unavailable.
package extract
