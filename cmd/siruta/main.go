// Package main provides the entry point for the siruta CLI.
//
// siruta downloads the locality nomenclature published by the Romanian
// Ministry of Finance, one XML document per county, and merges every
// locality record into a single JSON document.
//
// Usage:
//
//	siruta
//	siruta fetch -o localities.json
//	siruta history
//
// See --help for all available options.
package main

// main is the entry point for siruta.
func main() {
	Execute()
}
