// Package ui provides the OnlyPets terminal storefront.
//
// # Architecture Overview
//
// The UI is a Bubble Tea program. Its Update goroutine is the only place that
// touches application state. The package is purely reactive: key presses
// become flow intents, and the effects returned by the flow machine become
// view changes, list contents, notices and dispatcher submissions.
//
// # Package Structure
//
//   - app.go: Model, Update loop, key routing and Run
//   - effects.go: carries out flow effects (navigate, populate, notify, submit)
//   - views.go: rendering for every flow state
//   - keys.go: key bindings built with bubbles/key
//   - help.go: help overlay and the per-view footer bindings
//   - theme.go: the Lipgloss palette
//
// # Result Delivery
//
// Finished work reaches the UI through the dispatcher's results channel. A
// command blocks on the channel, returns one result as a message, and is
// re-armed by Update after that result has been applied:
//
//	┌──────────────┐  Submit   ┌────────────┐
//	│ Update loop  │ ────────> │ dispatcher │ goroutine per request
//	└──────▲───────┘           └─────┬──────┘
//	       │ resultMsg               │ Result
//	       └──── waitForResult <─────┘
//
// Submissions dropped by the dispatcher's busy policy are ignored.
package ui
