package source

import (
	"context"
	"io"
	"os"
	"strings"

	"github.com/spf13/pflag"

	"github.com/caaatisgood/expo/config"
)

// CLISource loads dot-notated flags:
//
//	--server.addr=:9090 --bridge.script scripts/demo.lua --bridge.dumpManifest
//	  -> {server: {addr: ":9090"}, bridge: {script: "scripts/demo.lua", dumpManifest: "true"}}
//
// Single-dash long flags are accepted, a flag without a value reads as
// "true", and positional arguments are ignored.
type CLISource struct {
	// Args defaults to os.Args[1:].
	Args []string
}

func (c *CLISource) Name() string { return "cli" }

func (c *CLISource) Load(ctx context.Context) (map[string]any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	args := c.Args
	if args == nil {
		args = os.Args[1:]
	}
	return parseCliFlags(args), nil
}

func (c *CLISource) Watch(context.Context, chan<- config.Event) error {
	return nil
}

func parseCliFlags(raw []string) map[string]any {
	result := make(map[string]any)
	fs := pflag.NewFlagSet("config", pflag.ContinueOnError)
	fs.SetOutput(io.Discard)

	args := normalizeArgs(raw)
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if !strings.HasPrefix(arg, "-") {
			continue
		}

		name := extractFlagName(arg)
		if name == "" {
			continue
		}
		if fs.Lookup(name) == nil {
			fs.String(name, "", "config value for "+name)
		}

		if strings.Contains(arg, "=") {
			continue
		}
		if i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
			i++
			continue
		}
		fs.Lookup(name).NoOptDefVal = "true"
	}

	_ = fs.Parse(args)

	fs.VisitAll(func(flag *pflag.Flag) {
		if !flag.Changed {
			return
		}
		value := flag.Value.String()
		if value == "" {
			return
		}
		setNestedValue(result, strings.Split(flag.Name, "."), value)
	})

	return result
}

// normalizeArgs turns single-dash long flags into double-dash ones.
func normalizeArgs(args []string) []string {
	normalized := make([]string, len(args))
	for i, arg := range args {
		normalized[i] = arg
		if strings.HasPrefix(arg, "-") && !strings.HasPrefix(arg, "--") {
			rest := strings.TrimPrefix(arg, "-")
			if len(rest) > 1 && rest[0] != '=' {
				normalized[i] = "-" + arg
			}
		}
	}
	return normalized
}

func extractFlagName(arg string) string {
	arg = strings.TrimLeft(arg, "-")
	name, _, _ := strings.Cut(arg, "=")
	return name
}
