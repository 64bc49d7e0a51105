// Package cli constructs the repofeed command-line interface. It wires the
// Cobra root command, the layered configuration loader (embedded defaults,
// configuration file, dotenv file and REPOFEED_ environment variables) and
// zap logging, then runs feed generation for the resolved repository root.
package cli
