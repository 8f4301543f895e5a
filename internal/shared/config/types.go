package config

type AppConfig struct {
	Timezone    string `mapstructure:"timezone" yaml:"timezone"`
	CountryCode string `mapstructure:"country_code" yaml:"country_code"`
}

type StorageConfig struct {
	Path string `mapstructure:"path" yaml:"path"`
}

type LoggerConfig struct {
	Level      string `mapstructure:"level" yaml:"level"`
	Format     string `mapstructure:"format" yaml:"format"`
	OutputPath string `mapstructure:"output_path" yaml:"output_path"`
}

// IsDebug reports whether the logger runs at debug level.
func (l *LoggerConfig) IsDebug() bool {
	return l.Level == "debug"
}
