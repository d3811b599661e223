// Package lookuptrace carries an OTel span context across datagram hops.
// The original gRPC transport propagated this via outgoing/incoming
// metadata and a unary interceptor; over raw UDP there is no metadata
// channel, so the trace context travels as an ordinary map field inside
// the PUT/GET envelope payload instead (see wire.PutArgs/GetArgs.Trace).
package lookuptrace

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
)

// Inject serializes the span context carried by ctx into a carrier map
// suitable for embedding in an outgoing envelope.
func Inject(ctx context.Context) map[string]string {
	carrier := propagation.MapCarrier{}
	otel.GetTextMapPropagator().Inject(ctx, carrier)
	return carrier
}

// Extract rebuilds a context carrying the span context found in carrier,
// or returns ctx unchanged if carrier is empty.
func Extract(ctx context.Context, carrier map[string]string) context.Context {
	if len(carrier) == 0 {
		return ctx
	}
	return otel.GetTextMapPropagator().Extract(ctx, propagation.MapCarrier(carrier))
}
