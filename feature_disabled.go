//go:build noextended

package extended

// extendedEnabled selects the always-degraded bridge; nothing is ever loaded.
const extendedEnabled = false
