package display

// Config contains configuration of the console output.
type Config struct {
	// Colour failure renders with ANSI escape codes.
	Color bool
}
