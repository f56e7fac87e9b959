package logging_test

import (
	"context"
	"testing"

	"github.com/moneyforward-i/admina-sso-sync/pkg/logging"
	"github.com/stretchr/testify/assert"
)

func TestContextFunctions(t *testing.T) {
	t.Run("WithApp adds application to context", func(t *testing.T) {
		ctx := context.Background()
		ctx = logging.WithApp(ctx, "Sales Tool")
		
		// Extract logger and verify it has the app field
		logger := logging.FromContext(ctx)
		assert.NotNil(t, logger)
	})

	t.Run("WithSource adds source to context", func(t *testing.T) {
		ctx := context.Background()
		ctx = logging.WithSource(ctx, "azuread")
		
		logger := logging.FromContext(ctx)
		assert.NotNil(t, logger)
	})

	t.Run("WithOperation adds operation to context", func(t *testing.T) {
		ctx := context.Background()
		ctx = logging.WithOperation(ctx, "build_roster")
		
		logger := logging.FromContext(ctx)
		assert.NotNil(t, logger)
	})

	t.Run("WithWorkspace adds workspace to context", func(t *testing.T) {
		ctx := context.Background()
		ctx = logging.WithWorkspace(ctx, "Sales Tool")
		
		logger := logging.FromContext(ctx)
		assert.NotNil(t, logger)
	})

	t.Run("WithFields adds custom fields to context", func(t *testing.T) {
		ctx := context.Background()
		fields := map[string]interface{}{
			"user_id": "123",
			"request_id": "abc-def",
		}
		ctx = logging.WithFields(ctx, fields)
		
		logger := logging.FromContext(ctx)
		assert.NotNil(t, logger)
	})

	t.Run("FromContext returns logger from context", func(t *testing.T) {
		ctx := context.Background()
		
		// First call should create a new logger
		logger1 := logging.FromContext(ctx)
		assert.NotNil(t, logger1)
		
		// Add application and get logger again
		ctx = logging.WithApp(ctx, "HR Portal")
		logger2 := logging.FromContext(ctx)
		assert.NotNil(t, logger2)
	})

	t.Run("Ctx extracts logger from context", func(t *testing.T) {
		ctx := context.Background()
		ctx = logging.WithApp(ctx, "Expense App")
		
		logger := logging.Ctx(ctx)
		assert.NotNil(t, logger)
	})

	t.Run("chaining context functions", func(t *testing.T) {
		ctx := context.Background()
		ctx = logging.WithApp(ctx, "Sales Tool")
		ctx = logging.WithSource(ctx, "records")
		ctx = logging.WithOperation(ctx, "reconcile")
		ctx = logging.WithWorkspace(ctx, "Expense App")
		
		logger := logging.FromContext(ctx)
		assert.NotNil(t, logger)
	})
}