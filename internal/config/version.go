package config

// Version is the apitrail binary version.
// Set at build time via: -ldflags "-X github.com/apitrail/apitrail/internal/config.Version=<tag>"
// Defaults to "dev" when built without ldflags.
var Version = "dev"
