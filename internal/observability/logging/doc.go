// Package logging provides structured logging helpers with context propagation.
//
//	logger := logging.New(os.Stdout, "info")
//	slog.SetDefault(logger)
//
//	func handle(ctx context.Context) {
//	    logging.FromContext(ctx).InfoContext(ctx, "processing request")
//	}
package logging
