// Package cli implements the boatrace-odds command-line interface.
//
// The cli package provides the Cobra-based commands: serve runs the proxy
// API, while odds, schedule and board run one extraction against the live
// site and print the result as a text table or JSON. It wires configuration,
// the scraper, the extraction core, the board and the notifiers together.
package cli
