// Package cmd 提供 goloc 的命令行入口与子命令编排。
package cmd

import (
	"context"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"goloc/internal/config"
	"goloc/internal/console"
	"goloc/internal/languages"

	"github.com/spf13/cobra"
)

// rootOptions 存放所有子命令共享的参数。
type rootOptions struct {
	debug bool
	color string
	mode  console.Mode
}

// Execute 加载配置、组装根命令并执行。
// version 参数由 main 包注入，便于在 CI/CD 中打包不同版本。
func Execute(version string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	rootCmd := newRootCmd(version, cfg, languages.NewRegistry())
	return rootCmd.ExecuteContext(ctx)
}

// newRootCmd 创建根命令并注册全部子命令。
func newRootCmd(version string, cfg config.Config, registry *languages.Registry) *cobra.Command {
	options := &rootOptions{
		debug: cfg.Debug,
		color: cfg.Color,
	}

	rootCmd := &cobra.Command{
		Use:   "goloc",
		Short: "按文件后缀统计源码行数的工具",
		Long: "goloc 遍历目录树（可限制递归深度），按已识别的文件后缀统计\n" +
			"文件数、行数、注释行、空行、字符数以及 notebook 的 markdown 行数。",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			mode, err := config.ParseColorMode(options.color)
			if err != nil {
				return err
			}
			options.mode = mode
			setupLogger(cmd.ErrOrStderr(), options.debug)
			return nil
		},
	}

	rootCmd.PersistentFlags().BoolVar(&options.debug, "debug", options.debug, "输出调试日志")
	rootCmd.PersistentFlags().StringVar(&options.color, "color", options.color, "颜色输出: auto、always 或 never")

	rootCmd.AddCommand(newVersionCmd(version))
	rootCmd.AddCommand(newLanguageCmd(registry))
	rootCmd.AddCommand(newScanCmd(registry, cfg, options))

	return rootCmd
}

// setupLogger 配置默认 slog logger，默认只输出 warn 及以上级别。
func setupLogger(writer io.Writer, debug bool) {
	level := slog.LevelWarn
	if debug {
		level = slog.LevelDebug
	}

	handler := slog.NewTextHandler(writer, &slog.HandlerOptions{
		Level: level,
	})
	slog.SetDefault(slog.New(handler))
}
