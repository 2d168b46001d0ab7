package constant

var (
	// Version set at build time with -ldflags
	Version = "unknown version"
	// BuildTime set at build time with -ldflags
	BuildTime = "unknown time"
)
