// Package store provides the dashboard's in-memory state and pub/sub
// change notifications.
//
// This package is internal to SellerDash and owns every product,
// notification and order the dashboard shows, along with the active section
// and the transient alerts. It is the only code allowed to mutate that
// state.
//
// The main components are:
//
//   - [Store]: Interface defining the operations the HTTP layer depends on
//   - [DashboardStore]: The in-memory implementation
//   - [Change]: A notice that a page region must be re-rendered
//
// Every mutating operation holds one lock for its whole duration, so
// operations triggered by browsers and by the inbound notification channel
// never interleave. Subscribers receive changes via channels with
// non-blocking sends (slow subscribers will miss changes rather than block
// the store).
//
// Users of the sellerdash library should not need to interact with this
// package directly. State is managed internally by SellerDash.
package store
