// Package flagx contains helpers for components that each parse only their
// own slice of the command line.
package flagx

import (
	"flag"
	"io"
	"os"
	"strings"
)

// FilterArgs returns the subset of args made of allowedFlags and their values.
//
// Supported forms are "-c conf.json" and "--config=conf.json". A value is only
// consumed when the next token does not itself look like a flag.
func FilterArgs(args []string, allowedFlags []string) []string {
	allowed := make(map[string]struct{}, len(allowedFlags))
	for _, f := range allowedFlags {
		allowed[f] = struct{}{}
	}

	filtered := make([]string, 0, len(args))

	for i := 0; i < len(args); i++ {
		arg := args[i]

		if strings.HasPrefix(arg, "-") && strings.Contains(arg, "=") {
			name := strings.SplitN(arg, "=", 2)[0]
			if _, ok := allowed[name]; ok {
				filtered = append(filtered, arg)
			}
			continue
		}

		if _, ok := allowed[arg]; ok {
			filtered = append(filtered, arg)
			if i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
				filtered = append(filtered, args[i+1])
				i++
			}
		}
	}

	return filtered
}

// StringFlag extracts a single string value known under a short and a long
// name (e.g. "c" and "config") from args. The last occurrence wins and an
// absent flag yields "".
func StringFlag(args []string, short, long string) string {
	var value string

	filtered := FilterArgs(args, []string{"-" + short, "-" + long, "--" + long})

	fs := flag.NewFlagSet(long, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&value, long, "", "")
	fs.StringVar(&value, short, "", "")
	_ = fs.Parse(filtered)

	return value
}

// JsonConfigFlags returns the config file path given via -c or -config.
func JsonConfigFlags() string {
	return StringFlag(os.Args[1:], "c", "config")
}

// EnvFileFlags returns the dotenv file path given via -e or -env.
func EnvFileFlags() string {
	return StringFlag(os.Args[1:], "e", "env")
}
