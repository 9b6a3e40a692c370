// Package log provides VestFlow's structured logging facade.
//
// The package exposes a small Logger interface with leveled methods and a
// Field type for structured context. Internally it is backed by the standard
// library's slog handlers, so output is ordinary slog text or JSON while the
// codebase programs against one stable surface.
//
// Quick start:
//
//	l := log.NewLogger(
//	    log.WithLevel(log.InfoLevel),
//	    log.WithFormat(log.FormatText),
//	)
//	l = l.With(log.Component("engine"))
//	l.Info("stream created", log.Uint64("id", id), log.Str("sender", sender))
package log
