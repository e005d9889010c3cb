package config

import "go.uber.org/zap"

// NewLogger builds a production logger for ENV=production and a development one otherwise.
func NewLogger(env string) (*zap.Logger, error) {
	if env == "production" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}
