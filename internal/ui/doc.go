// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI renders a live view of one indexing run:
//  1. [RunView] : Per-phase checklist with spinners and progress bars for the
//     paginated fetch, feature enrichment and artwork download stages
//  2. [ResultView] : Snapshot summary (track counts, duration, artwork
//     outcomes) once the run finishes
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern.
// Progress updates flow through a channel from the Indexer, providing non-blocking
// status reporting during the run.
package ui
