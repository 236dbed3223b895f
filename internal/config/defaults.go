package config

// Default values applied when the corresponding YAML field is absent,
// mirrored from spec.md §6's configuration surface.
const (
	DefaultTapDanceTimeout    uint16 = 200
	DefaultComboThreshold     uint16 = 10
	DefaultEventPollTimeout   uint16 = 1
	DefaultDeferredKeyDelay   uint16 = 0
	DefaultUnicodeInputDelay  uint16 = 50
	DefaultMaximumLookupDepth uint8  = 10
)
