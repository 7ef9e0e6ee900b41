package cli

import (
	"github.com/echo-go/uiauto/internal/backend/jab"
	"github.com/echo-go/uiauto/internal/backend/uia"
	"github.com/spf13/cobra"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check which backends are usable on this host",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		if b, err := uia.New(); err == nil {
			b.Close()
			cmd.Println("uia:  ok (IUIAutomation COM instance created)")
		} else {
			cmd.Printf("uia:  unavailable (%s)\n", err)
		}

		if cfg.JAB.DLLPath == "" {
			cmd.Println("jab:  skipped (jab.dll_path not configured)")
		} else if lib, err := jab.Load(cfg.JAB.DLLPath); err == nil && lib.Loaded() {
			cmd.Printf("jab:  ok (%s loaded)\n", cfg.JAB.DLLPath)
		} else {
			cmd.Printf("jab:  unavailable (%s)\n", err)
		}

		cmd.Println("cv:   ok (no native dependency)")

		return nil
	},
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}
