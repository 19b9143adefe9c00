// Command macrowire prints views of the locally stored news feed.
//
// Usage:
//
//	macrowire news [--page N]     Paged feed, newest first
//	macrowire sources             Latest items per source
//	macrowire sources --summary   Item counts per source
//	macrowire topics              Latest items per topic
//	macrowire classify            Classify JSONL records from stdin
//	macrowire status              Per-source ingestion health
//	macrowire overview            Topics and health side by side
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "macrowire:", err)
		os.Exit(1)
	}
}
