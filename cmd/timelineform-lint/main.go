package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/goliatone/go-timelineform/pkg/config"
)

type violation struct {
	file     string
	location string
	message  string
}

func main() {
	flag.Usage = func() {
		if _, err := fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [config files...]\n", filepath.Base(os.Args[0])); err != nil {
			panic(err)
		}
		if _, err := fmt.Fprintf(flag.CommandLine.Output(), "\nCheck timeline configuration files (JSON, TOML or YAML).\n"); err != nil {
			panic(err)
		}
	}
	flag.Parse()

	paths := flag.Args()
	if len(paths) == 0 {
		if env := strings.TrimSpace(os.Getenv("CONFIG_PATH")); env != "" {
			paths = []string{env}
		}
	}
	if len(paths) == 0 {
		flag.Usage()
		os.Exit(2)
	}

	var violations []violation
	for _, path := range paths {
		violations = append(violations, lintFile(path)...)
	}
	if report(os.Stderr, violations) {
		os.Exit(1)
	}
}

// report prints violations sorted by file and location and reports whether
// there were any.
func report(w io.Writer, violations []violation) bool {
	sort.Slice(violations, func(i, j int) bool {
		if violations[i].file == violations[j].file {
			if violations[i].location == violations[j].location {
				return violations[i].message < violations[j].message
			}
			return violations[i].location < violations[j].location
		}
		return violations[i].file < violations[j].file
	})
	for _, v := range violations {
		fmt.Fprintf(w, "%s: %s -> %s\n", v.file, v.location, v.message)
	}
	return len(violations) > 0
}

func lintFile(path string) []violation {
	file, err := config.LoadFile(path)
	if err != nil {
		return []violation{{file: path, location: "file", message: err.Error()}}
	}

	var result []violation
	for idx, descriptor := range file.Timelines {
		if err := descriptor.Validate(); err != nil {
			result = append(result, violation{
				file:     path,
				location: formatLocation([]string{"timelines", strconv.Itoa(idx + 1)}),
				message:  err.Error(),
			})
		}
	}
	result = append(result, lintHelp(path, file)...)

	if variant := file.Form.Variant; variant != "" {
		themeConfig, ok := file.Themes[file.Form.Theme]
		if !ok {
			result = append(result, violation{
				file:     path,
				location: formatLocation([]string{"form", "variant"}),
				message:  fmt.Sprintf("variant %q set without a form theme", variant),
			})
		} else if _, ok := themeConfig.Variants[variant]; !ok {
			result = append(result, violation{
				file:     path,
				location: formatLocation([]string{"form", "variant"}),
				message:  fmt.Sprintf("theme %q has no variant %q", file.Form.Theme, variant),
			})
		}
	}
	return result
}

func lintHelp(path string, file config.File) []violation {
	keys := make([]string, 0, len(file.Form.Help))
	for key := range file.Form.Help {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var result []violation
	for _, key := range keys {
		location := formatLocation([]string{"form", "help", key})
		position, err := strconv.Atoi(strings.TrimSpace(key))
		switch {
		case err != nil:
			result = append(result, violation{file: path, location: location, message: "help keys must be 1-based positions"})
		case position < 1 || position > len(file.Timelines):
			result = append(result, violation{
				file:     path,
				location: location,
				message:  fmt.Sprintf("position %d is outside 1..%d", position, len(file.Timelines)),
			})
		case strings.TrimSpace(file.Form.Help[key]) == "":
			result = append(result, violation{file: path, location: location, message: "help text is empty"})
		}
	}
	return result
}

func formatLocation(path []string) string {
	return strings.Join(path, " > ")
}
