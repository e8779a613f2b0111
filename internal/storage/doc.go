// Package storage provides JSON-based persistence of sent-notice marks.
//
// The storage package keeps one local file (sent_notices.json) mapping each
// notice dedup key to the time its mark expires, so that separate CLI runs
// do not alert twice on the same race. The default location is
// ~/.local/share/boatrace-odds/.
package storage
