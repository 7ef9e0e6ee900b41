package cli

import (
	"context"
	"strconv"
	"strings"

	"github.com/echo-go/uiauto/internal/element"
	"github.com/spf13/cobra"
)

var (
	treeHWND     string
	treeMaxDepth int
)

var treeCmd = &cobra.Command{
	Use:   "tree",
	Short: "Dump an element tree as indented text",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		d, err := buildDriver(cfg, nil)
		if err != nil {
			return err
		}

		hwnd, err := parseHWND(treeHWND)
		if err != nil {
			return err
		}

		root, err := d.Snapshot(context.Background(), hwnd, treeMaxDepth)
		if err != nil {
			return err
		}

		printTree(cmd, root)

		return nil
	},
}

func printTree(cmd *cobra.Command, e *element.Element) {
	indent := strings.Repeat("  ", e.Depth())
	cmd.Printf("%s[%s] %s role=%s name=%q bounds=%s\n", indent, e.Backend(), e.ID(), e.Role(), e.Name(), e.Bounds())

	for _, child := range e.Children() {
		printTree(cmd, child)
	}
}

func parseHWND(s string) (uintptr, error) {
	if s == "" {
		return 0, nil
	}

	v, err := strconv.ParseUint(strings.TrimPrefix(s, "0x"), 16, 64)
	if err != nil {
		return 0, err
	}

	return uintptr(v), nil
}

func init() {
	treeCmd.Flags().StringVar(&treeHWND, "hwnd", "", "target window handle (hex, e.g. 0x1a2b); empty snapshots via the CV backend")
	treeCmd.Flags().IntVar(&treeMaxDepth, "max-depth", 0, "maximum tree depth to snapshot (0 = unlimited)")
	rootCmd.AddCommand(treeCmd)
}
