package main

import (
	"errors"
	"fmt"
	"lecturebot/internal/di"
	"lecturebot/internal/structures"
	"os"

	"github.com/spf13/pflag"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var flags structures.CliFlags

	flagSet := pflag.NewFlagSet("lecturebot", pflag.ContinueOnError)
	flagSet.StringVarP(&flags.ConfigPath, "config", "c", "config.yml", "path to the YAML config file")
	flagSet.BoolVarP(&flags.DebugMode, "debug", "d", false, "also log to the console")
	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}

	app, cleanup, err := di.InitApp(&flags)
	if err != nil {
		return err
	}
	defer app.Close()
	defer cleanup()

	return app.Run()
}
