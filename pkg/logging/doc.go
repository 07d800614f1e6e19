// Package logging carries a [*slog.Logger] through a [context.Context].
//
// Commands attach a logger once at startup:
//
//	logger := logging.New(os.Stderr, logging.ParseLevel("debug"))
//	ctx = logging.NewContext(ctx, logger)
//
// and every component retrieves it from the context it was handed:
//
//	logging.FromContext(ctx).Info("pdf fetched", "url", link, "bytes", n)
//
// When no logger is attached, FromContext falls back to [slog.Default].
package logging
