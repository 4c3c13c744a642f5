package config

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	// Log level: debug, info, warning, error
	Level string `mapstructure:"level" validate:"required,oneof=debug info warning error"`

	// Output destination: stdout, stderr
	Output string `mapstructure:"output" validate:"required,oneof=stdout stderr"`

	// Colorize levels on terminals
	Color bool `mapstructure:"color"`

	// Persist entries to the run journal in the database
	Journal bool `mapstructure:"journal"`
}
