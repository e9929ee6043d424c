// internal/logger/logger.go
//
// Structured JSON logger (Zap + Lumberjack).
//
// Context
// -------
// linkbio writes lifecycle, request, and error events to one JSON log per day
// under `<root>/logs/YYYY-MM-DD.log`.  When running in an interactive TTY we
// tee the same events to stdout with the console encoder.  Rotation,
// compression, and retention are handled by Lumberjack.
//
// Usage
// -----
//
//	log, err := logger.New(cfg.Paths.Root, cfg.Log.Level, runningInTTY())
//	if err != nil { … }
//	log.Infow("page published", "slug", slug)
//
// Notes
// -----
//   - Zap core uses ISO-8601 timestamps and lowercase levels.
//   - The level is shared by both cores and can be flipped at runtime through
//     the returned AtomicLevel.
package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/natefinch/lumberjack"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Level is the process-wide log level.  Handlers such as an admin toggle may
// call Level.SetLevel at runtime.
var Level = zap.NewAtomicLevelAt(zap.InfoLevel)

// New returns a *zap.SugaredLogger that writes JSON to <root>/logs.  When
// tee == true, a console core is also attached.  The logger is installed as
// the process-wide default via zap.ReplaceGlobals.
func New(rootDir, level string, tee bool) (*zap.SugaredLogger, error) {
	if level != "" {
		if err := Level.UnmarshalText([]byte(level)); err != nil {
			return nil, fmt.Errorf("log level %q: %w", level, err)
		}
	}

	logDir := filepath.Join(rootDir, "logs")
	if err := os.MkdirAll(logDir, 0o755); err != nil {
		return nil, err
	}

	fileSink := &lumberjack.Logger{
		Filename:   filepath.Join(logDir, time.Now().Format("2006-01-02")+".log"),
		MaxSize:    50, // MB
		MaxBackups: 7,
		MaxAge:     14, // days
		Compress:   true,
	}

	encCfg := zapcore.EncoderConfig{
		TimeKey:      "ts",
		LevelKey:     "level",
		NameKey:      "logger",
		MessageKey:   "msg",
		CallerKey:    "caller",
		EncodeTime:   zapcore.ISO8601TimeEncoder,
		EncodeLevel:  zapcore.LowercaseLevelEncoder,
		EncodeCaller: zapcore.ShortCallerEncoder,
	}

	cores := []zapcore.Core{
		zapcore.NewCore(zapcore.NewJSONEncoder(encCfg), zapcore.AddSync(fileSink), Level),
	}
	if tee {
		cores = append(cores, zapcore.NewCore(
			zapcore.NewConsoleEncoder(encCfg),
			zapcore.AddSync(os.Stdout),
			Level,
		))
	}

	z := zap.New(
		zapcore.NewTee(cores...),
		zap.AddCaller(),
		zap.ErrorOutput(zapcore.AddSync(fileSink)),
	).Sugar()

	zap.ReplaceGlobals(z.Desugar())

	z.Infow("logger online", "tee", tee, "level", Level.String())
	return z, nil
}
