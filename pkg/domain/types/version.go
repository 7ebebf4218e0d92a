package types

// Version is the releasor version, overridden at build time via -ldflags.
var Version = "dev"
