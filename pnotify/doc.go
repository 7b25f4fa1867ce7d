// Package pnotify contains the change-notification registry
// underlying the pipes package.
//
// The [Registry] type specifically handles the pattern of
// many handlers observing named change types,
// where every notification is delivered synchronously,
// in registration order, within the notifying call.
package pnotify
