package metrics

import (
	"context"
	"reflect"
	"strings"
	"time"

	"github.com/andrescamacho/swarm-go/internal/application/mediator"
)

// PrometheusMiddleware tracks every request sent through the mediator,
// labelled by its bare type name and whether it is a command or a query.
func PrometheusMiddleware(collector *RequestMetricsCollector) mediator.Middleware {
	return func(ctx context.Context, request mediator.Request, next mediator.HandlerFunc) (mediator.Response, error) {
		if collector == nil {
			return next(ctx, request)
		}

		name, kind := describeRequest(request)
		collector.RequestStarted(name, kind)
		start := time.Now()

		response, err := next(ctx, request)

		collector.RequestFinished(name, kind, time.Since(start).Seconds(), err == nil)
		return response, err
	}
}

// describeRequest turns "*commands.RunSimulationCommand" into
// ("RunSimulationCommand", "command") and "*queries.ListRunsQuery" into
// ("ListRunsQuery", "query")
func describeRequest(request mediator.Request) (name, kind string) {
	if request == nil {
		return "Unknown", RequestKindCommand
	}

	name = strings.TrimPrefix(reflect.TypeOf(request).String(), "*")
	if i := strings.LastIndex(name, "."); i >= 0 {
		name = name[i+1:]
	}

	kind = RequestKindCommand
	if strings.HasSuffix(name, "Query") {
		kind = RequestKindQuery
	}
	return name, kind
}
