// Package cmd implements the CLI commands of dwcli.
//
// Each operation of the platform client is a subcommand: gentoken and
// gencookie produce session material, lscabinets lists the repositories,
// and get/update/download/upload act on documents selected by id, server
// query, client predicate, or --all. The shell subcommand runs an
// interactive session against one cabinet.
//
// Every command validates its own required inputs and reports a message
// naming the missing flag before exiting; nothing is retried or guessed at
// this layer.
package cmd
