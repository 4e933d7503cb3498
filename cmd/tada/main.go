package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/Makepad-fr/tada/internal/cli"
	"github.com/Makepad-fr/tada/internal/config"
	"github.com/Makepad-fr/tada/internal/ui"
)

func main() {
	fs := flag.NewFlagSet("tada", flag.ExitOnError)
	fs.Usage = func() { cli.PrintHelp(os.Stderr) }

	// Root flags apply to every subcommand.
	cfg, args, err := config.Load(fs, os.Args[1:])
	if err != nil {
		ui.Fail(os.Stderr, "config: "+err.Error())
		os.Exit(2)
	}
	ui.SetTheme(cfg.Theme)

	code := cli.Run(args, cli.Options{Config: cfg})
	if code != 0 {
		fmt.Fprintln(os.Stderr)
	}
	os.Exit(code)
}
