package telemetry

import (
	"fmt"

	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// EnableDBTracing registers the otelgorm plugin on the connection so every
// query is recorded as a child span of the request trace. Statement text goes
// into the span; bind variables stay out of it.
func EnableDBTracing(db *gorm.DB, log *zap.Logger) error {
	plugin := otelgorm.NewPlugin(
		otelgorm.WithDBName("postgres"),
		otelgorm.WithoutQueryVariables(),
	)
	if err := db.Use(plugin); err != nil {
		return fmt.Errorf("failed to register database tracing: %w", err)
	}
	log.Info("database tracing enabled")
	return nil
}
