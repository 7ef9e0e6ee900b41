// Package logger provides structured logging for the uiauto runtime, using
// the zap logging library with file rotation support.
package logger
