//go:build !legacymmparser

package extended

// DefaultScheme is the naming scheme compiled into this build.
const DefaultScheme = SchemeStandard
