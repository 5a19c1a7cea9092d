// Package harvest provides a bounded, single-origin web crawler.
// Given a seed URL, a link-matching pattern and a CSS selector, it follows
// matching links up to a page budget, extracts the selected text from each
// page, and persists the aggregate result.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., goquery/, http/, sqlite/).
package harvest
