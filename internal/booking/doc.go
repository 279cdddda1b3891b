// Package booking implements the slot-booking core: resolving which
// hour slots of a day are already occupied in the backing calendars,
// and reserving a slot only if no overlapping event exists at the
// moment of commit.
//
// The package is backend-agnostic. Calendar access goes through the
// EventSearcher, EventCreator, EventParser and EventBuilder interfaces;
// the caldav and googlecal packages provide the concrete
// implementations. The backing calendar is the sole system of record:
// the core keeps no state of its own apart from the per-user Gate.
package booking
