package di

import "strings"

// keySeparator joins a contract identifier and an interface name.
const keySeparator = "#"

// Key returns the registration key for a contract/interface pair.
func Key(contract, iface string) string {
	return contract + keySeparator + iface
}

// SplitKey returns the contract and interface parts of a key built by Key.
// Keys without a separator are returned as a contract with no interface.
func SplitKey(key string) (contract, iface string) {
	contract, iface, _ = strings.Cut(key, keySeparator)
	return contract, iface
}

// ContractNames lists the host service contracts hostkit knows about.
// Hosts embed this struct when they add their own contracts.
type ContractNames struct {
	// UnicodeConverter resolves to a charset.Codec.
	UnicodeConverter string
	// PreferenceBranch resolves to a pref.Branch.
	PreferenceBranch string

	// Config and Logger expose the runtime's configuration and logger.
	Config string
	Logger string
}

// Contracts contains the well-known contract keys.
var Contracts = ContractNames{
	UnicodeConverter: Key("hostkit/intl/unicode-converter;1", "Codec"),
	PreferenceBranch: Key("hostkit/preferences-service;1", "Branch"),

	Config: Key("hostkit/config;1", "Config"),
	Logger: Key("hostkit/logger;1", "Logger"),
}
