// Package main hosts the movieguide CLI entrypoint and command graph.
//
// The Cobra-based command tree covers one-shot scans, ad-hoc title
// parsing and review composition, history inspection, and configuration
// scaffolding. Configuration resolution and logging setup live in the
// command context so subcommands stay declarative; heavy lifting belongs
// in the internal packages.
package main
