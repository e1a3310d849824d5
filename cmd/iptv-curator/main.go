package main

import (
	"errors"
	"log"
	"os"

	"github.com/jessevdk/go-flags"
)

// options are shared by every command.
type options struct {
	Config string `short:"c" long:"config" env:"CONFIG_FILE" default:"config.yaml" description:"Configuration file (.yaml or legacy .ini)"`
}

var opts options

func main() {
	parser := flags.NewParser(&opts, flags.Default)
	parser.LongDescription = "Probes IPTV playlist sources, classifies channels and writes curated playlists."

	mustAddCommand(parser, "run", "Run one curation batch",
		"Loads every configured playlist, probes the streams and writes the base and qualified playlists.",
		&runCommand{})
	mustAddCommand(parser, "serve", "Serve playlists over HTTP",
		"Runs curation periodically and serves the latest playlists, statistics and metrics over HTTP.",
		&serveCommand{})
	mustAddCommand(parser, "classify", "Classify channel names",
		"Prints how the configured rules classify each NAME. Without names the built-in self-test runs.",
		&classifyCommand{})

	if _, err := parser.Parse(); err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
			return
		}
		os.Exit(1)
	}
}

func mustAddCommand(parser *flags.Parser, name, short, long string, data any) {
	if _, err := parser.AddCommand(name, short, long, data); err != nil {
		log.Fatalf("failed to register %s command: %v", name, err)
	}
}
