package cmd

import (
	"encoding/json"
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"github.com/yeisme/videocatalog/pkg/configs"
	"github.com/yeisme/videocatalog/pkg/rule"
)

var (
	// viperDebug 额外输出 viper 的内部状态.
	viperDebug bool

	// config 子命令.
	configCmd = &cobra.Command{
		Use:   "config",
		Short: "config subcommands",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return loadConfig()
		},
	}

	// 打印当前使用的配置文件路径.
	pathCmd = &cobra.Command{
		Use:   "path",
		Short: "print the path of the current config file",
		Run: func(cmd *cobra.Command, args []string) {
			cfg := configs.GetViper().ConfigFileUsed()
			if cfg == "" {
				fmt.Fprintln(cmd.OutOrStdout(), "no config file used (defaults or env)")
				return
			}

			fmt.Fprintln(cmd.OutOrStdout(), cfg)
		},
	}

	// 以 JSON 打印合并后的配置.
	showCmd = &cobra.Command{
		Use:     "show",
		Aliases: []string{"debug"},
		Short:   "print the current config values",
		RunE: func(cmd *cobra.Command, args []string) error {
			if viperDebug {
				configs.GetViper().DebugTo(cmd.ErrOrStderr())
			}

			b, err := json.MarshalIndent(configs.GetConfig(), "", "  ")
			if err != nil {
				return fmt.Errorf("marshal config: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), string(b))

			return nil
		},
	}

	// 按结构体上的 rule 标签校验配置.
	checkCmd = &cobra.Command{
		Use:   "check",
		Short: "validate the current config values",
		RunE: func(cmd *cobra.Command, args []string) error {
			err := rule.ValidateStruct(configs.GetConfig())
			if err == nil {
				fmt.Fprintln(cmd.OutOrStdout(), "config ok")
				return nil
			}

			fields := rule.StructErrors(err)
			if fields == nil {
				return err
			}

			keys := make([]string, 0, len(fields))
			for k := range fields {
				keys = append(keys, k)
			}

			slices.Sort(keys)

			for _, k := range keys {
				fmt.Fprintf(cmd.ErrOrStderr(), "%s: %s\n", k, fields[k])
			}

			return fmt.Errorf("%d invalid config values", len(fields))
		},
	}
)

// registerConfigsCommands 注册 CLI 子命令.
func registerConfigsCommands() {
	showCmd.Flags().BoolVar(&viperDebug, "viper", false, "also dump viper internals to stderr")

	configCmd.AddCommand(pathCmd)
	configCmd.AddCommand(showCmd)
	configCmd.AddCommand(checkCmd)

	rootCmd.AddCommand(configCmd)
}
