package logging

import (
	"go.uber.org/zap"

	"github.com/dashunya17/CookingBenefits/config"
)

// New builds the application logger: JSON in production, console otherwise.
func New() (*zap.Logger, error) {
	if config.IsProduction() {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}
