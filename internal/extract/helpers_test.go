package extract

import "github.com/helpdesk-ai/support-engine/internal/observability"

func nopLogger() *observability.Logger {
	return observability.Nop()
}
