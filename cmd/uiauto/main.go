// Package main is the entry point for the uiauto command-line runtime.
package main

import "github.com/echo-go/uiauto/internal/cli"

func main() {
	cli.Execute()
}
