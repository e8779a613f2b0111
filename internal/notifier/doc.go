// Package notifier delivers high-odds notices to external channels.
//
// A Notice is raised when boat 1 is priced above the alert threshold. The
// package provides a webhook, Twitter, e-mail and Telegram notifier, a
// dry-run notifier for local use, a Multi fan-out and a Deduper that
// suppresses notices already sent within a TTL.
package notifier
