// Package application provides dependency wiring for the morning briefing.
// It builds the shared HTTP client, the news, weather and task fetchers and
// the mailer from configuration, and runs the fetch, compose and send
// sequence, keeping the main package focused on CLI parsing.
package application
