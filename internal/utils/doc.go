// Package utils exposes reusable helpers consumed by the CLI.
//
// It houses ConfigurationLoader (Viper with embedded defaults and environment
// overrides), EnvironmentFileLoader (dotenv files via godotenv), and
// LoggerFactory (zap loggers in structured or console form).
package utils
