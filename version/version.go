package version

// Vers is the current version of the project.
const Vers = "0.3.0"

// TimestampFormat is the format of the Timestamp.
const TimestampFormat = "2006-01-02T15:04:05Z07:00"

// Timestamp is the build time. It can be overridden with -ldflags "-X".
var Timestamp = "2026-10-19T00:00:00Z"
