// Package commands provides the command-line interface for the cryptopals tool.
//
// It implements commands for:
//   - running challenges
//   - listing challenges
//
// The package handles command-line parsing, configuration validation,
// and environment variable binding through cobra and viper.
package commands
