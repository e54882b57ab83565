package telemetry

import (
	"fmt"

	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// RegisterDBTracing instruments a GORM session with OpenTelemetry spans
// for every query. Query variables are stripped from the recorded
// statements since carts and selections can carry customer data.
func RegisterDBTracing(db *gorm.DB, logger *zap.Logger) error {
	plugin := otelgorm.NewPlugin(
		otelgorm.WithDBName("postgresql"),
		otelgorm.WithoutQueryVariables(),
	)
	if err := db.Use(plugin); err != nil {
		return fmt.Errorf("failed to register gorm tracing plugin: %w", err)
	}
	logger.Info("Database tracing registered")
	return nil
}
