// Package logx configures jobwatch's structured logging.
//
// This repo uses a small wrapper (logx.Logger) on top of zerolog to keep
// call sites stable while sinks and levels can be swapped at runtime via
// Service.Apply(). The zero Logger value is a safe no-op.
package logx
