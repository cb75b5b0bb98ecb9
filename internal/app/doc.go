// Package app provides the orchestration layer for the OnlyPets storefront.
//
// # Overview
//
// This package wires together configuration, logging, the SQLite store, the
// guest wishlist file, the work dispatcher and the UI. It is the composition
// root where all dependencies are initialized and connected.
//
// # Data Flow
//
//	┌──────────────┐
//	│   Run()      │ Initialize everything
//	└──────┬───────┘
//	       │
//	       ├─────> config.Load()        Read ~/.config/onlypets/config.toml
//	       ├─────> logging.New()        zap logger writing to a file
//	       ├─────> Open()               store, schema, sample data, dispatcher
//	       └─────> ui.Run()             Start TUI (blocks)
//
//	Per request:
//	┌─────────────────────────────────────────┐
//	│ dispatcher goroutine                    │
//	│  ├─> store.Do() pins a connection       │
//	│  ├─> executor runs the query            │
//	│  └─> Result posted to the inbox         │
//	│      └─> UI applies it in Update        │
//	└─────────────────────────────────────────┘
//
// # Error Handling
//
// Fatal errors (returned from Run):
//   - Configuration file invalid
//   - Log file cannot be created
//   - Database cannot be opened, migrated or seeded
//
// Recoverable errors (surfaced by the UI, the program keeps running):
//   - Any failed query inside a dispatched request
//   - Guest wishlist merge failures
//
// # Shutdown
//
// Services.Close stops the dispatcher, waits for in-flight workers and closes
// the database. In-flight work is never cancelled.
package app
