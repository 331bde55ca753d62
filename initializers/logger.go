package initializers

import "go.uber.org/zap"

// NewLogger returns a JSON production logger, or a console logger in development.
func NewLogger(cfg *Config) *zap.Logger {
	var (
		log *zap.Logger
		err error
	)
	if cfg.Development() {
		log, err = zap.NewDevelopment()
	} else {
		log, err = zap.NewProduction()
	}
	if err != nil {
		panic(err)
	}
	return log
}
