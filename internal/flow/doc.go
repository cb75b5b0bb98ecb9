// Package flow implements the storefront's navigation state machine.
//
// # Model
//
// A Machine owns one Session and one FlowContext. User input arrives as an
// Intent and finished background work arrives as a dispatch.Result. Both are
// folded in on the UI goroutine:
//
//	next, effects := m.Update(flow.AdoptClicked{})
//	next, effects = next.Apply(result)
//
// The machine never performs I/O. It returns Effects (Navigate, SwitchAuth,
// Populate, ShowHistory, Notify, Submit) and the presentation adapter carries
// them out in order. Submit effects are handed to the dispatcher.
//
// # Pending actions
//
// An Adopt or Book click made while logged out is remembered as the pending
// action and the user is sent to AuthPrompt. The first click wins; later clicks
// do not overwrite it. A successful login consumes it and goes straight to the
// AdoptionForm or BookingSchedule for the remembered item. CancelAuth and
// Logout discard it. A failed login leaves it in place.
//
// Every successful login also submits MergeGuestWishlist, whatever the
// pending action was.
//
// # Failures
//
// A failed result never moves the machine. Data access errors become a
// generic notification; login and signup rejections become specific ones.
package flow
