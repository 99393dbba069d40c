// Package redis provides a Redis client component and a Redis-backed
// preference store.
//
// Client wraps go-redis with hostkit logging and configuration conventions.
// Component adds Start/Stop/Health lifecycle so the host runtime can own the
// connection.
//
// # Preferences
//
// PrefStore keeps each preference in a hash holding its kind and encoded
// value, so a single HSET or HGETALL reads or writes it atomically:
//
//	client, _ := redis.New(redis.Config{Enabled: true, Addr: "localhost:6379"}, log)
//	branch := redis.NewPrefBranch(client, "prefs")
//	err := pref.SetPref("browser.theme", "dark", pref.WithBranch(branch))
package redis
