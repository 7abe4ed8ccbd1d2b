// Package logger wraps zap for the packaging and deploy tools:
//   - a global sugared logger writing a readable console format,
//   - context helpers (ToContext/FromContext/WithName/WithKV),
//   - level parsing for the --log-level flag,
//   - shorthand functions (Infof, WarnKV, ...).
//
// Pipelines receive a context and log through it, so every step message
// carries the pipeline name.
package logger
