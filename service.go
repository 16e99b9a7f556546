package hyperagg

import "context"

// Service is the service interface of the aggregator.
// It enables middleware to be added to the service.
type Service interface {
	// Run aggregates the input at path into a Report.
	Run(ctx context.Context, path string) (*Report, error)
	// Progress returns the collector tracking the runs of the service.
	Progress() *Progress
}

// Middleware describes a service middleware.
type Middleware func(Service) Service

// ApplyMiddleware applies middlewares to a service.
func ApplyMiddleware(svc Service, mw ...Middleware) Service {
	// Apply each middleware in the chain
	for _, m := range mw {
		svc = m(svc)
	}

	return svc
}
