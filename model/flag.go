package model

// Flags represents the root command line flags.
type Flags struct {
	Version    bool
	Verbose    bool
	Help       bool
	Output     string
	ConfigPath string

	// Command is the first positional argument; Args are the ones after it.
	Command string
	Args    []string
}
