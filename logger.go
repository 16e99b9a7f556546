package hyperagg

// Logger describes the logging interface used by the aggregator and its
// middlewares. Uber's zap SugaredLogger satisfies it, as does any logger
// exposing Infof and Errorf.
type Logger interface {
	Infof(format string, args ...any)
	Errorf(format string, args ...any)
}

type nopLogger struct{}

func (nopLogger) Infof(string, ...any)  {}
func (nopLogger) Errorf(string, ...any) {}
