// Package logger provides structured logging for igfetch on top of zerolog.
//
// It exposes a small Logger interface with leveled methods and field
// chaining, pretty console output on stderr, optional file output, and a
// global instance initialized from config.LoggingConfig:
//
//	err := logger.Initialize(&cfg.Logging)
//	log := logger.GetLogger().WithField("component", "extractor")
//	log.InfoWithFields("sequence opened", map[string]interface{}{
//	    "url": url, "cap": cap,
//	})
//
// Tests should use NewNopLogger to keep output quiet.
package logger
