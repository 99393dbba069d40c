package pref

// GetPrefService resolves the preference branch from the default locator.
func GetPrefService() (Branch, error) {
	return NewBridge().Service()
}

// GetPref reads name with the getter matching its stored kind. The branch is
// resolved from the default locator unless WithBranch or WithLocator is given.
//
// An absent key returns the zero Value with a NOT_FOUND error.
func GetPref(name string, opts ...Option) (Value, error) {
	return NewBridge(opts...).Get(name)
}

// SetPref coerces value to the stored kind of name and writes it. An absent
// key is left absent and NOT_FOUND is returned.
func SetPref(name string, value any, opts ...Option) error {
	return NewBridge(opts...).Set(name, value)
}
