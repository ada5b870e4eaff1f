package observe

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/san-kum/boxsim/internal/boxmodel"
)

// ParseLevel maps debug, info, warn and error to slog levels.
func ParseLevel(s string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid log level %q", s)
	}
	return l, nil
}

func NewLogger(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// LoggingObserver logs run lifecycle events and, at debug level, every step.
type LoggingObserver struct {
	Logger *slog.Logger
	Name   string
	RunID  string

	started time.Time
}

// NewLoggingObserver creates an observer for the named model. If logger is
// nil, slog.Default() is used.
func NewLoggingObserver(logger *slog.Logger, name string) *LoggingObserver {
	if logger == nil {
		logger = slog.Default()
	}
	return &LoggingObserver{Logger: logger, Name: name, RunID: uuid.NewString()}
}

func (o *LoggingObserver) OnRunStart(m *boxmodel.Model) {
	o.started = time.Now()
	o.Logger.Info("run_start",
		slog.String("model", o.Name),
		slog.String("run_id", o.RunID),
		slog.Int("boxes", len(m.Boxes())),
		slog.Int("steps", m.TotalSteps()),
		slog.Float64("step_length", m.StepLength()),
	)
}

func (o *LoggingObserver) OnStep(step int, t float64, reg *boxmodel.Registry) {
	if !o.Logger.Enabled(context.Background(), slog.LevelDebug) {
		return
	}
	attrs := []any{
		slog.String("run_id", o.RunID),
		slog.Int("step", step),
		slog.Float64("time", t),
	}
	for _, it := range reg.Items() {
		if it.Name == boxmodel.KeyStep || it.Name == boxmodel.KeyTime {
			continue
		}
		attrs = append(attrs, slog.Float64(it.Name, it.Cell.Get()))
	}
	o.Logger.Debug("step", attrs...)
}

func (o *LoggingObserver) OnRunEnd(m *boxmodel.Model, err error) {
	if err != nil {
		o.Logger.Error("run_failed",
			slog.String("model", o.Name),
			slog.String("run_id", o.RunID),
			slog.Int("step", m.Step()),
			slog.Any("error", err),
		)
		return
	}
	o.Logger.Info("run_completed",
		slog.String("model", o.Name),
		slog.String("run_id", o.RunID),
		slog.Int("steps", m.Step()),
		slog.Float64("time", m.Time()),
		slog.Duration("duration", time.Since(o.started)),
	)
}
