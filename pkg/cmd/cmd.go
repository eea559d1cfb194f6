// Package cmd contains the command line applications for the project.
package cmd

import (
	"github.com/spf13/cobra"

	"github.com/yeisme/videocatalog/pkg/configs"
	"github.com/yeisme/videocatalog/pkg/log"
)

var (
	// configPath 配置文件路径或所在目录.
	configPath string

	rootCmd = &cobra.Command{
		Use:           configs.AppName,
		Short:         "Video catalog admin backend",
		Version:       configs.AppVersion,
		SilenceUsage:  true,
		SilenceErrors: false,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "configs", "config file or directory")

	registerServeCommands()
	registerMigrateCommands()
	registerPurgeCommands()
	registerConfigsCommands()
	registerBackendCommands()
	registerBrowseCommands()
}

// loadConfig 加载配置并初始化日志，供不启动 HTTP 服务的子命令使用.
func loadConfig() error {
	if err := configs.InitConfig(configPath); err != nil {
		return err
	}

	log.Init()

	return nil
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
