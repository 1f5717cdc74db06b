package observability

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/BinkaDev/gachabox"

// Tracer returns the named tracer from the global provider. Without an
// installed provider the global no-op implementation is used.
func Tracer(component string) trace.Tracer {
	if component == "" {
		return otel.Tracer(instrumentationName)
	}
	return otel.Tracer(instrumentationName + "/" + component)
}
