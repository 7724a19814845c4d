package namegen

import "os"

// ShowHelp prints usage information for the generator.
func ShowHelp() {
	os.Stdout.WriteString(`namegen
=======

Writes synthetic yearly birth-name files (yob<YEAR>.txt) for namerank.

Usage:
  go run ./cmd/namegen [options]

Options:
  -out string
        Output directory (default "testdata/names")
  -begin int
        First year (default 2000)
  -end int
        Last year, inclusive (default 2014)
  -names int
        Names per gender per year, at most 1888 (default 200)
  -max int
        Largest births count for a single name (default 25000)
  -interleave
        Order rows by count across genders instead of females then males
  -verbose
        Enable debug logging
  -help
        Show this help message

Examples:
  go run ./cmd/namegen -out /tmp/names -begin 1880 -end 2014
  go run ./cmd/namegen -interleave -names 50
`)
}
