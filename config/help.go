package config

import (
	"flag"
	"fmt"
)

const HelpMessage = `taxi-pulse - filtering and aggregation backend for the taxi dashboard

Usage:
  dashboard [--config-path <path>]

Flags:
  --config-path   Path to the YAML config file (default "config.yaml")
  --help          Show this message

Configuration is read from the YAML file, then overridden by environment
variables (SERVER_PORT, DATASET_YEAR, SOURCE_MODE, ...).
`

func PrintHelp() {
	if HelpMessage != "" {
		fmt.Printf("%s", HelpMessage)
	} else {
		flag.Usage()
	}
}
