package cli

import (
	"context"

	"github.com/echo-go/uiauto/internal/config"
	"github.com/echo-go/uiauto/internal/imaging"
	"github.com/echo-go/uiauto/internal/matching/orchestrator"
	"github.com/echo-go/uiauto/internal/winhost"
	"github.com/spf13/cobra"
)

var (
	clickHWND     string
	clickRole     string
	clickName     string
	clickCriteria []string
	clickImage    string
	clickPosition string
)

var clickCmd = &cobra.Command{
	Use:   "click",
	Short: "Click an element found by criteria, or an image found on screen",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		pos := orchestrator.Position(clickPosition)
		ctx := context.Background()

		if clickImage != "" {
			return clickImageOnScreen(ctx, cfg, pos)
		}

		d, err := buildDriver(cfg, nil)
		if err != nil {
			return err
		}

		hwnd, err := parseHWND(clickHWND)
		if err != nil {
			return err
		}

		criteria, err := buildCriteria(clickRole, clickName, clickCriteria)
		if err != nil {
			return err
		}

		target, err := d.FindElement(ctx, hwnd, nil, criteria, cfg.Matching.FindTimeout)
		if err != nil {
			return err
		}

		if err := d.Click(ctx, target, pos); err != nil {
			return err
		}

		cmd.Printf("clicked %s at %s\n", target.ID(), orchestrator.ClickPoint(target.Bounds(), pos))

		return nil
	},
}

func clickImageOnScreen(ctx context.Context, cfg *config.Config, pos orchestrator.Position) error {
	reference, err := imaging.Decode(clickImage)
	if err != nil {
		return err
	}

	capture := winhost.NewScreenCapture()

	screenshot, err := capture.CaptureScreen(ctx)
	if err != nil {
		return err
	}

	screen, err := capture.ScreenSize()
	if err != nil {
		return err
	}

	template := orchestrator.Template{
		Name:       clickImage,
		Reference:  reference,
		Strategies: parseStrategies(nil, cfg.Matching.CVStrategy),
		Threshold:  cfg.Matching.Threshold,
	}

	found, err := orchestrator.Match(ctx, template, screenshot, screen)
	if err != nil {
		return err
	}

	input := winhost.NewInputInjector()
	point := orchestrator.ClickPoint(found.Rect, pos)

	return input.Click(ctx, point, "left")
}

func init() {
	clickCmd.Flags().StringVar(&clickHWND, "hwnd", "", "target window handle (hex); empty snapshots via the CV backend")
	clickCmd.Flags().StringVar(&clickRole, "role", "", "shorthand for --criteria role=<value>")
	clickCmd.Flags().StringVar(&clickName, "name", "", "shorthand for --criteria name=<value>")
	clickCmd.Flags().StringArrayVar(&clickCriteria, "criteria", nil, "key=value or key_op=value predicate, repeatable")
	clickCmd.Flags().StringVar(&clickImage, "image", "", "click a reference image's matched location instead of a criteria result")
	clickCmd.Flags().StringVar(&clickPosition, "position", string(orchestrator.PositionCenter), "anchor point within the target to click")
	rootCmd.AddCommand(clickCmd)
}
