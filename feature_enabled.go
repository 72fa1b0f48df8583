//go:build !noextended

package extended

// extendedEnabled selects the dynamic-loading bridge.
const extendedEnabled = true
