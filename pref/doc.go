// Package pref reads and writes typed application preferences through a
// preference branch resolved from the host's service locator.
//
// A preference has one of three kinds (string, integer, boolean) fixed by
// the store. Reads and writes look the kind up first and dispatch to the
// matching typed accessor, so callers never declare it:
//
//	v, err := pref.GetPref("browser.theme")
//	err = pref.SetPref("app.retries", 5)
//
// Keys that do not exist are reported as NOT_FOUND and are never created by
// SetPref; seed them with Define. Stored values of any other kind fail with
// UNSUPPORTED_TYPE.
//
// Backends implement the small Store interface and are wrapped in a
// StoreBranch. This package ships a memory store and a viper-backed file
// store; pref/sqlite and the redis package provide persistent ones.
package pref
