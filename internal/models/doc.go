// package models defines the data model for playlist snapshots: raw page
// entries as returned by the upstream API, enriched tracks, artwork records,
// and the assembled snapshot document that gets serialized to JSON.
package models
