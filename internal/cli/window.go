package cli

import (
	"context"

	derrors "github.com/echo-go/uiauto/internal/core/errors"
	"github.com/echo-go/uiauto/internal/geometry"
	"github.com/spf13/cobra"
)

var windowCmd = &cobra.Command{
	Use:   "window",
	Short: "Enumerate and manage top-level windows",
}

var windowListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all visible top-level windows",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		d, err := buildDriver(cfg, nil)
		if err != nil {
			return err
		}

		windows, err := d.Windows(context.Background())
		if err != nil {
			return err
		}

		for _, w := range windows {
			cmd.Printf("0x%x\t%s\t%s\t%s\n", w.Handle, w.Class, w.Title, w.Bounds)
		}

		return nil
	},
}

var windowForegroundCmd = &cobra.Command{
	Use:   "foreground",
	Short: "Print the currently focused top-level window",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		d, err := buildDriver(cfg, nil)
		if err != nil {
			return err
		}

		w, err := d.ForegroundWindow(context.Background())
		if err != nil {
			return err
		}

		cmd.Printf("0x%x\t%s\t%s\t%s\n", w.Handle, w.Class, w.Title, w.Bounds)

		return nil
	},
}

func windowStateCmd(use, short, state string) *cobra.Command {
	var hwnd string

	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			d, err := buildDriver(cfg, nil)
			if err != nil {
				return err
			}

			h, err := parseHWND(hwnd)
			if err != nil {
				return err
			}

			if h == 0 {
				return derrors.New(derrors.CodeInvalidArgument, "--hwnd is required")
			}

			return d.SetWindowState(context.Background(), h, state)
		},
	}

	cmd.Flags().StringVar(&hwnd, "hwnd", "", "target window handle (hex)")
	_ = cmd.MarkFlagRequired("hwnd")

	return cmd
}

var (
	windowShowCmd     = windowStateCmd("show", "Show a hidden window", "show")
	windowHideCmd     = windowStateCmd("hide", "Hide a window", "hide")
	windowMaximizeCmd = windowStateCmd("maximize", "Maximize a window", "maximize")
	windowMinimizeCmd = windowStateCmd("minimize", "Minimize a window", "minimize")
	windowRestoreCmd  = windowStateCmd("restore", "Restore a minimized or maximized window", "restore")
)

var (
	moveHWND                   string
	moveX, moveY, moveW, moveH int
)

var windowMoveCmd = &cobra.Command{
	Use:   "move",
	Short: "Reposition and resize a window",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		d, err := buildDriver(cfg, nil)
		if err != nil {
			return err
		}

		h, err := parseHWND(moveHWND)
		if err != nil {
			return err
		}

		if h == 0 {
			return derrors.New(derrors.CodeInvalidArgument, "--hwnd is required")
		}

		rect := geometry.NewRectangle(moveX, moveY, moveW, moveH)

		return d.MoveWindow(context.Background(), h, rect)
	},
}

func init() {
	windowCmd.AddCommand(windowListCmd)
	windowCmd.AddCommand(windowForegroundCmd)
	windowCmd.AddCommand(windowShowCmd)
	windowCmd.AddCommand(windowHideCmd)
	windowCmd.AddCommand(windowMaximizeCmd)
	windowCmd.AddCommand(windowMinimizeCmd)
	windowCmd.AddCommand(windowRestoreCmd)

	windowMoveCmd.Flags().StringVar(&moveHWND, "hwnd", "", "target window handle (hex)")
	windowMoveCmd.Flags().IntVar(&moveX, "x", 0, "left edge in screen pixels")
	windowMoveCmd.Flags().IntVar(&moveY, "y", 0, "top edge in screen pixels")
	windowMoveCmd.Flags().IntVar(&moveW, "width", 0, "window width in pixels")
	windowMoveCmd.Flags().IntVar(&moveH, "height", 0, "window height in pixels")
	_ = windowMoveCmd.MarkFlagRequired("hwnd")
	windowCmd.AddCommand(windowMoveCmd)

	rootCmd.AddCommand(windowCmd)
}
