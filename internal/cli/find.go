package cli

import (
	"context"
	"strings"
	"time"

	derrors "github.com/echo-go/uiauto/internal/core/errors"
	"github.com/echo-go/uiauto/internal/query"
	"github.com/spf13/cobra"
)

var (
	findHWND        string
	findRole        string
	findName        string
	findCriteria    []string
	findIgnoreCase  bool
	findIncludeSelf bool
	findMaxDepth    int
	findLimit       int
	findTimeout     time.Duration
	findWait        bool
)

var findCmd = &cobra.Command{
	Use:   "find",
	Short: "Find elements in a window's tree matching criteria",
	Long: `find builds a Criteria map from --role/--name and repeated
--criteria key=value (or key_op=value, e.g. name_like=Save) flags, then runs
it over a fresh snapshot of the target window.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		d, err := buildDriver(cfg, nil)
		if err != nil {
			return err
		}

		hwnd, err := parseHWND(findHWND)
		if err != nil {
			return err
		}

		criteria, err := buildCriteria(findRole, findName, findCriteria)
		if err != nil {
			return err
		}

		opts := query.FindOptions{
			Options:     query.Options{IgnoreCase: findIgnoreCase},
			IncludeSelf: findIncludeSelf,
			MaxDepth:    findMaxDepth,
			Limit:       findLimit,
		}

		ctx := context.Background()

		if findWait {
			found, err := d.FindElement(ctx, hwnd, nil, criteria, findTimeout)
			if err != nil {
				return err
			}

			cmd.Printf("[%s] %s role=%s name=%q bounds=%s\n", found.Backend(), found.ID(), found.Role(), found.Name(), found.Bounds())

			return nil
		}

		results, err := d.FindElements(ctx, hwnd, nil, criteria, opts)
		if err != nil {
			return err
		}

		for _, e := range results {
			cmd.Printf("[%s] %s role=%s name=%q bounds=%s\n", e.Backend(), e.ID(), e.Role(), e.Name(), e.Bounds())
		}

		return nil
	},
}

func buildCriteria(role, name string, rawCriteria []string) (query.Criteria, error) {
	criteria := query.Criteria{}

	if role != "" {
		criteria["role"] = role
	}

	if name != "" {
		criteria["name"] = name
	}

	for _, kv := range rawCriteria {
		key, value, ok := strings.Cut(kv, "=")
		if !ok {
			return nil, derrors.Newf(derrors.CodeInvalidArgument, "--criteria %q is not in key=value form", kv)
		}

		criteria[key] = value
	}

	return criteria, nil
}

func init() {
	findCmd.Flags().StringVar(&findHWND, "hwnd", "", "target window handle (hex); empty snapshots via the CV backend")
	findCmd.Flags().StringVar(&findRole, "role", "", "shorthand for --criteria role=<value>")
	findCmd.Flags().StringVar(&findName, "name", "", "shorthand for --criteria name=<value>")
	findCmd.Flags().StringArrayVar(&findCriteria, "criteria", nil, "key=value or key_op=value predicate, repeatable")
	findCmd.Flags().BoolVar(&findIgnoreCase, "ignore-case", false, "fold string comparisons case-insensitively")
	findCmd.Flags().BoolVar(&findIncludeSelf, "include-self", false, "include the snapshot root itself in results")
	findCmd.Flags().IntVar(&findMaxDepth, "max-depth", 0, "maximum depth below the root to search (0 = unlimited)")
	findCmd.Flags().IntVar(&findLimit, "limit", 0, "stop after this many matches (0 = unlimited)")
	findCmd.Flags().BoolVar(&findWait, "wait", false, "poll until a match appears or --timeout elapses")
	findCmd.Flags().DurationVar(&findTimeout, "timeout", 5*time.Second, "timeout for --wait")
	rootCmd.AddCommand(findCmd)
}
