package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/yeisme/videocatalog/pkg/configs"
	"github.com/yeisme/videocatalog/pkg/internal/storage/db"
	"github.com/yeisme/videocatalog/pkg/internal/storage/kv"
	"github.com/yeisme/videocatalog/pkg/internal/storage/mq"
)

// backendGroup 一类可插拔存储后端的命令组：ls 列出已注册实现并标出当前配置使用的那个.
type backendGroup struct {
	use     string
	short   string
	aliases []string
	list    func() []string
	current func(cfg *configs.AppConfig) string
}

var backendGroups = []backendGroup{
	{
		use:   "db",
		short: "database backends",
		list:  func() []string { return names(db.GetRegisteredDBTypes()) },
		current: func(cfg *configs.AppConfig) string {
			return string(cfg.DB.Dialect())
		},
	},
	{
		use:     "kv",
		short:   "cache key-value backends",
		aliases: []string{"keyvalue"},
		list:    func() []string { return names(kv.GetRegisteredKVTypes()) },
		current: func(cfg *configs.AppConfig) string {
			if !cfg.Cache.Enabled {
				return ""
			}

			return cfg.KV.Type
		},
	},
	{
		use:     "mq",
		short:   "entity event message queue backends",
		aliases: []string{"messagequeue"},
		list:    func() []string { return names(mq.GetRegisteredMQTypes()) },
		current: func(cfg *configs.AppConfig) string {
			if !cfg.Events.Enabled {
				return ""
			}

			return string(cfg.MQ.Type)
		},
	},
}

func names[T ~string](in []T) []string {
	out := make([]string, len(in))
	for i, v := range in {
		out[i] = string(v)
	}

	return out
}

func (g backendGroup) command() *cobra.Command {
	group := &cobra.Command{Use: g.use, Short: g.short, Aliases: g.aliases}

	group.AddCommand(&cobra.Command{
		Use:     "list",
		Short:   "list registered " + g.use + " types, * marks the configured one",
		Aliases: []string{"ls", "l"},
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := loadConfig(); err != nil {
				return err
			}

			printBackends(cmd.OutOrStdout(), g.list(), g.current(configs.GetConfig()))

			return nil
		},
	})

	return group
}

func printBackends(w io.Writer, registered []string, current string) {
	for _, t := range registered {
		mark := " "
		if t == current {
			mark = "*"
		}

		fmt.Fprintf(w, " %s %s\n", mark, t)
	}
}

func registerBackendCommands() {
	for _, g := range backendGroups {
		rootCmd.AddCommand(g.command())
	}
}
