package build

// Version is overridden at build time with -ldflags "-X .../internal/build.Version=...".
var Version = "0.0.0-dev"
