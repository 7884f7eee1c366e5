package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"spoke/internal/trace"
)

type traceFlags struct {
	output    string
	level     string
	mode      string
	format    string
	ringSize  int
	heartbeat time.Duration
}

func readTraceFlags(cmd *cobra.Command) (traceFlags, error) {
	flags := cmd.Root().PersistentFlags()
	var tf traceFlags
	var err error
	if tf.output, err = flags.GetString("trace"); err != nil {
		return tf, fmt.Errorf("failed to get trace flag: %w", err)
	}
	if tf.level, err = flags.GetString("trace-level"); err != nil {
		return tf, fmt.Errorf("failed to get trace-level flag: %w", err)
	}
	if tf.mode, err = flags.GetString("trace-mode"); err != nil {
		return tf, fmt.Errorf("failed to get trace-mode flag: %w", err)
	}
	if tf.format, err = flags.GetString("trace-format"); err != nil {
		return tf, fmt.Errorf("failed to get trace-format flag: %w", err)
	}
	if tf.ringSize, err = flags.GetInt("trace-ring-size"); err != nil {
		return tf, fmt.Errorf("failed to get trace-ring-size flag: %w", err)
	}
	if tf.heartbeat, err = flags.GetDuration("trace-heartbeat"); err != nil {
		return tf, fmt.Errorf("failed to get trace-heartbeat flag: %w", err)
	}
	return tf, nil
}

// traceSession is the tracer of one command run with its root span.
type traceSession struct {
	tracer    trace.Tracer
	span      *trace.Span
	heartbeat *trace.Heartbeat
	dumpRing  bool
	errOut    io.Writer
}

// startTracing attaches a tracer and the root driver span to the command
// context. It returns nil when tracing is off.
func startTracing(cmd *cobra.Command) (*traceSession, error) {
	tf, err := readTraceFlags(cmd)
	if err != nil {
		return nil, err
	}
	level, err := trace.ParseLevel(tf.level)
	if err != nil {
		return nil, err
	}
	// --trace без уровня включает фазы
	if level == trace.LevelOff && tf.output != "" {
		level = trace.LevelPhase
	}
	if level == trace.LevelOff {
		cmd.SetContext(trace.WithTracer(cmd.Context(), trace.Nop))
		return nil, nil
	}

	mode, err := trace.ParseMode(tf.mode)
	if err != nil {
		return nil, err
	}
	format, err := trace.ParseFormat(tf.format)
	if err != nil {
		return nil, err
	}
	if tf.output != "" && mode == trace.ModeRing {
		mode = trace.ModeStream
	}
	tracer, err := trace.New(trace.Config{
		Level:      level,
		Mode:       mode,
		Format:     format,
		OutputPath: tf.output,
		RingSize:   tf.ringSize,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create tracer: %w", err)
	}

	ctx, span := trace.Start(trace.WithTracer(cmd.Context(), tracer), trace.ScopeDriver, "spoke "+cmd.Name())
	cmd.SetContext(ctx)
	return &traceSession{
		tracer:    tracer,
		span:      span,
		heartbeat: trace.StartHeartbeat(tracer, tf.heartbeat),
		dumpRing:  mode == trace.ModeRing,
		errOut:    cmd.ErrOrStderr(),
	}, nil
}

func (s *traceSession) close() {
	if s == nil {
		return
	}
	s.heartbeat.Stop()
	s.span.End("")
	// события кольца видны только через дамп
	if ring, ok := trace.FindRing(s.tracer); ok && s.dumpRing {
		if err := ring.Dump(os.Stderr, trace.FormatText); err != nil {
			fmt.Fprintf(s.errOut, "trace: dump error: %v\n", err)
		}
	}
	if err := s.tracer.Close(); err != nil {
		fmt.Fprintf(s.errOut, "trace: close error: %v\n", err)
	}
}
