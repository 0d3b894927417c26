package main

import (
	"fmt"
	"io"

	"github.com/danmuck/mpdwire/internal/config"
	"github.com/spf13/pflag"
)

func runConfig(args []string, stdout io.Writer) error {
	fs := pflag.NewFlagSet("config", pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	output := fs.StringP("output", "o", "", "output path for config template")
	validate := fs.String("validate", "", "validate an existing config file")
	force := fs.Bool("force", false, "overwrite existing config file")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("config: %v: %w", err, errUsage)
	}

	if *validate != "" {
		if _, err := config.Load(*validate); err != nil {
			return err
		}
		fmt.Fprintf(stdout, "validated config at %s\n", *validate)
		return nil
	}
	if *output == "" {
		return fmt.Errorf("config: --output is required: %w", errUsage)
	}
	if err := config.WriteTemplate(*output, *force); err != nil {
		return err
	}
	fmt.Fprintf(stdout, "wrote config template to %s\n", *output)
	return nil
}
