package cli

import (
	"context"

	"github.com/echo-go/uiauto/internal/imaging"
	"github.com/echo-go/uiauto/internal/matching/orchestrator"
	"github.com/echo-go/uiauto/internal/winhost"
	"github.com/spf13/cobra"
)

var (
	matchImagePath string
	matchThreshold float64
	matchStrategy  []string
)

var matchCmd = &cobra.Command{
	Use:   "match",
	Short: "Match a reference image against the current screen",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		reference, err := imaging.Decode(matchImagePath)
		if err != nil {
			return err
		}

		threshold := matchThreshold
		if threshold == 0 {
			threshold = cfg.Matching.Threshold
		}

		strategies := parseStrategies(matchStrategy, cfg.Matching.CVStrategy)

		template := orchestrator.Template{
			Name:       matchImagePath,
			Reference:  reference,
			Strategies: strategies,
			Threshold:  threshold,
		}

		capture := winhost.NewScreenCapture()

		ctx := context.Background()

		screenshot, err := capture.CaptureScreen(ctx)
		if err != nil {
			return err
		}

		screen, err := capture.ScreenSize()
		if err != nil {
			return err
		}

		found, err := orchestrator.Match(ctx, template, screenshot, screen)
		if err != nil {
			return err
		}

		cmd.Printf("matched at %s confidence=%.3f strategy=%s\n", found.Rect, found.Confidence, found.Strategy)

		return nil
	},
}

func parseStrategies(flagValues, configured []string) []orchestrator.Strategy {
	names := flagValues
	if len(names) == 0 {
		names = configured
	}

	strategies := make([]orchestrator.Strategy, 0, len(names))
	for _, n := range names {
		strategies = append(strategies, orchestrator.Strategy(n))
	}

	return strategies
}

func init() {
	matchCmd.Flags().StringVar(&matchImagePath, "image", "", "path to the reference image")
	matchCmd.Flags().Float64Var(&matchThreshold, "threshold", 0, "minimum confidence to accept (0 = use matching.threshold from config)")
	matchCmd.Flags().StringArrayVar(&matchStrategy, "strategy", nil, "strategy to try, repeatable; defaults to matching.cv_strategy from config")
	_ = matchCmd.MarkFlagRequired("image")
	rootCmd.AddCommand(matchCmd)
}
