// Package security builds TLS client configuration for hostkit backends
// that talk to a network server, such as the Redis preference store.
//
//	redis:
//	  addr: redis.internal:6380
//	  tls:
//	    ca_file: /etc/hostkit/ca.pem
//
// A TLSConfig with no fields set builds to nil, meaning plain TCP.
package security
