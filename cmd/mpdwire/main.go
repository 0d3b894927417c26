package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/danmuck/mpdwire/internal/logging"
	"github.com/rs/zerolog/log"
)

const usage = `usage:
  mpdwire decode [--kind song|songs|stats|playlist|playlists] [--input FILE]
  mpdwire fetch currentsong|stats|playlists|queue [--config FILE] [--addr A] [--interval D] [--metrics-addr A]
  mpdwire config --output FILE [--force]`

var errUsage = errors.New(usage)

func main() {
	logging.ConfigureRuntime()
	if err := run(os.Args[1:], os.Stdin, os.Stdout); err != nil {
		if errors.Is(err, errUsage) {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(2)
		}
		log.Error().Err(err).Msg("mpdwire failed")
		os.Exit(1)
	}
}

func run(args []string, stdin io.Reader, stdout io.Writer) error {
	if len(args) == 0 {
		return errUsage
	}
	switch args[0] {
	case "decode":
		return runDecode(args[1:], stdin, stdout)
	case "fetch":
		return runFetch(args[1:], stdout)
	case "config":
		return runConfig(args[1:], stdout)
	case "-h", "--help", "help":
		fmt.Fprintln(stdout, usage)
		return nil
	default:
		return fmt.Errorf("unknown command %q: %w", args[0], errUsage)
	}
}

func writeJSON(w io.Writer, v any, pretty bool) error {
	enc := json.NewEncoder(w)
	if pretty {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(v)
}
