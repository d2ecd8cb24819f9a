// Package parsekit fetches remote content (feeds, JSON APIs, HTML pages,
// search-result pages) and normalizes it into a uniform item shape, subject
// to per-source rate limits and resilient against transient network failures.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., goquery/, gofeed/, http/).
package parsekit
