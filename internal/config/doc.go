// Package config loads and validates the runtime configuration for the
// element-tree/image-matching automation stack: which CV strategies to try
// and in what order, backend polling cadence, the JAB DLL location, and
// logging. Configuration is stored in TOML and resolved from a well-defined
// set of locations with a fixed precedence order.
package config
