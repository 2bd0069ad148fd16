package arbor

// Version is the library version. Release tooling rewrites this at build time
// via -ldflags.
var Version = "0.1.0"
