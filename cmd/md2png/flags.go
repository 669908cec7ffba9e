package main

import (
	"fmt"
	"io"
	"time"

	flag "github.com/spf13/pflag"
)

// cliFlags holds every command-line flag.
type cliFlags struct {
	config       string
	css          string
	style        string
	assetPath    string
	output       string
	html         bool
	timeout      time.Duration
	width        int
	scale        float64
	browser      string
	allowNetwork bool
	noSandbox    bool
	verbose      bool
	doctor       bool
	json         bool
	version      bool
	printConfig  bool
	help         bool

	// changed records which flags were given, so that unset flags do not
	// override the environment or the config file.
	changed func(name string) bool
}

// parseFlags parses args (without the program name) and returns the flags
// and at most one positional argument: the markdown file.
func parseFlags(args []string) (*cliFlags, string, error) {
	f := &cliFlags{}
	fs := flag.NewFlagSet("md2png", flag.ContinueOnError)
	// Parse errors are returned and presented once by the caller.
	fs.SetOutput(io.Discard)
	fs.Usage = func() {}

	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.StringVar(&f.css, "css", "", "extra CSS file appended after the style")
	fs.StringVar(&f.style, "style", "", "style name")
	fs.StringVar(&f.assetPath, "asset-path", "", "directory overriding embedded assets")
	fs.StringVarP(&f.output, "output", "o", "", "output .png file or directory")
	fs.BoolVar(&f.html, "html", false, "also write the generated HTML")
	fs.DurationVarP(&f.timeout, "timeout", "t", 0, "conversion timeout")
	fs.IntVar(&f.width, "width", 0, "viewport width in CSS pixels")
	fs.Float64Var(&f.scale, "scale", 0, "device scale factor")
	fs.StringVar(&f.browser, "browser", "", "browser executable")
	fs.BoolVar(&f.allowNetwork, "allow-network", false, "let the page load remote resources")
	fs.BoolVar(&f.noSandbox, "no-sandbox", true, "disable the browser sandbox")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "log progress to stderr")
	fs.BoolVar(&f.doctor, "doctor", false, "check the environment and exit")
	fs.BoolVar(&f.json, "json", false, "doctor output as JSON")
	fs.BoolVar(&f.version, "version", false, "print the version and exit")
	fs.BoolVar(&f.printConfig, "print-config", false, "print the effective config and exit")
	fs.BoolVarP(&f.help, "help", "h", false, "show help")

	if err := fs.Parse(args); err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrUsage, err)
	}
	f.changed = fs.Changed

	rest := fs.Args()
	if len(rest) > 1 {
		return nil, "", fmt.Errorf("%w: expected at most one file, got %d", ErrUsage, len(rest))
	}
	if len(rest) == 1 {
		return f, rest[0], nil
	}
	return f, "", nil
}
