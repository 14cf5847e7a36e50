package common

// UnknownStr is the display name used for values without a known name.
const UnknownStr = "unknown"
