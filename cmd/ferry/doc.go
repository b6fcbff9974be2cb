// Command ferry is the CLI for the Ferry transfer daemon: run a pass or the
// watch loop, inspect readiness and pass history, and manage configuration.
package main
