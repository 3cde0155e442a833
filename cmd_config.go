package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/pthm-cable/garden/config"
)

func newConfigCmd() *cobra.Command {
	var validate bool
	var out string
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print or write the effective configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Cfg()
			if validate {
				// Init already validated; reaching here means the file is good.
				path, _ := cmd.Flags().GetString("config")
				if path == "" {
					path = "embedded defaults"
				}
				fmt.Printf("%s: ok\n", path)
				return nil
			}
			if out != "" {
				if err := cfg.WriteYAML(out); err != nil {
					return err
				}
				fmt.Printf("wrote %s\n", out)
				return nil
			}
			data, err := yaml.Marshal(cfg)
			if err != nil {
				return fmt.Errorf("marshaling config: %w", err)
			}
			_, err = os.Stdout.Write(data)
			return err
		},
	}
	cmd.Flags().BoolVar(&validate, "validate", false, "Only check that the configuration loads")
	cmd.Flags().StringVar(&out, "out", "", "Write the configuration to this path")
	return cmd
}
