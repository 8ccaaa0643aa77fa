// Package main provides the signbridge server and CLI.
//
// Usage:
//
//	signbridge [flags] <command> [args]
//
// Commands:
//
//	serve     - Run the HTTP and gRPC servers
//	resolve   - Resolve tokens to video, markup or fingerspelling
//	sequence  - Resolve tokens and stitch their videos
//	markup    - Print the SiGML document for tokens
//	compose   - Stitch clip files into one sequence
//	refresh   - Rebuild the video library index
//	evict     - Delete stale composed sequences
//	stats     - Print coverage statistics
//	lexicon   - Inspect or extend the gesture lexicon
//	seed      - Download or render library clips
//	version   - Print build information
package main

import (
	"fmt"
	"os"

	"github.com/ekisa-team/signbridge/cmd/signbridge/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
