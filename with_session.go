package clarifysdk

import "context"

// WithSession manages client lifecycle with automatic cleanup.
//
// This helper creates a client with the provided options, executes the
// callback function, and ensures proper cleanup via Close() when done.
//
// If the callback returns an error, it is returned to the caller.
// If Close() fails, a warning is logged but does not override the
// callback's error.
//
// Example usage:
//
//	err := clarifysdk.WithSession(ctx, func(c clarifysdk.Client) error {
//	    questions, err := c.Generate(ctx, task)
//	    if err != nil {
//	        return err
//	    }
//	    for _, q := range questions {
//	        if _, err := c.Answer(ctx, q.ID, q.Options[0]); err != nil {
//	            return err
//	        }
//	    }
//	    return c.Complete()
//	},
//	    clarifysdk.WithLogger(log),
//	    clarifysdk.WithBaseURL("http://localhost:3000"),
//	)
func WithSession(ctx context.Context, fn func(Client) error, opts ...Option) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}

	options := applyOptions(opts)

	log := options.Logger
	if log == nil {
		log = NopLogger()
	}

	client := newClientImpl(options)

	defer func() {
		if closeErr := client.Close(); closeErr != nil {
			log.Warn("failed to close client", "error", closeErr)
		}
	}()

	return fn(client)
}
