// Package flagx lets every Grana component parse only the command-line
// flags it owns. The client shell, the server, and the JSON config loader
// all read os.Args independently; filtering first keeps them from tripping
// over each other's flags.
package flagx

import (
	"flag"
	"os"
	"strings"
)

// FilterArgs keeps only the flags named in allowed, with their values, and
// drops everything else.
//
// Two argument shapes are recognized:
//
//	-c value          value as the following argument
//	--config=value    flag and value in one argument
//
// A following argument starting with '-' is never consumed as a value.
func FilterArgs(args []string, allowed []string) []string {
	keep := make(map[string]bool, len(allowed))
	for _, name := range allowed {
		keep[name] = true
	}

	kept := make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		arg := args[i]

		if name, _, found := strings.Cut(arg, "="); found {
			if keep[name] {
				kept = append(kept, arg)
			}
			continue
		}

		if !keep[arg] {
			continue
		}
		kept = append(kept, arg)
		if i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
			i++
			kept = append(kept, args[i])
		}
	}

	return kept
}

// JsonConfigFlags returns the config file path given via -c or -config, or
// "" when neither flag is present. Only those two flags are inspected.
func JsonConfigFlags() string {
	args := FilterArgs(os.Args[1:], []string{"-c", "-config"})

	var path string
	fs := flag.NewFlagSet("jsonconfig", flag.ContinueOnError)
	fs.StringVar(&path, "config", "", "path to JSON config file")
	fs.StringVar(&path, "c", "", "path to JSON config file (shorthand)")
	_ = fs.Parse(args)

	return path
}
