package flag

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/pflag"
	"github.com/thirukguru/yolo-workbench/model"
)

// NewService creates a new flag service over the process arguments.
func NewService() Service {
	return NewServiceWithArgs(os.Args[1:])
}

// NewServiceWithArgs creates a flag service over args, excluding the program name.
func NewServiceWithArgs(args []string) Service {
	return &service{args: args}
}

// GetParsedFlags parses the root flags. Parsing stops at the first positional argument,
// which becomes the command; everything after it is left for the command's own flag set.
func (s *service) GetParsedFlags() (model.Flags, error) {
	fs := pflag.NewFlagSet("yolo-workbench", pflag.ContinueOnError)
	fs.SetInterspersed(false)
	fs.Usage = func() {}

	version := fs.BoolP("version", "v", false, "Show version information")
	verbose := fs.Bool("verbose", false, "Enable debug logging")
	output := fs.StringP("output", "o", "table", "Output format (table or json)")
	configPath := fs.String("config-path", "", "Path to yolo-workbench config file")
	help := fs.BoolP("help", "h", false, "Show usage")

	if err := fs.Parse(s.args); err != nil {
		return model.Flags{}, err
	}

	format := strings.ToLower(strings.TrimSpace(*output))
	if format != "table" && format != "json" {
		return model.Flags{}, fmt.Errorf("unsupported output format %q (want table or json)", *output)
	}

	flags := model.Flags{
		Version:    *version,
		Verbose:    *verbose,
		Help:       *help,
		Output:     format,
		ConfigPath: *configPath,
	}

	if rest := fs.Args(); len(rest) > 0 {
		flags.Command = rest[0]
		flags.Args = rest[1:]
	}

	return flags, nil
}
