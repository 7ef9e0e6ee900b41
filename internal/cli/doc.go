// Package cli provides the command-line interface for the automation
// runtime: one-shot commands that build a Driver from the configured
// backends and run a single window/tree/find/match/click/doctor operation,
// following the teacher's one-subcommand-per-file cobra layout minus its
// daemon/IPC dispatch (there is no long-running process to dispatch to).
package cli
