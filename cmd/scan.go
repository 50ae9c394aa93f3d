package cmd

import (
	"errors"
	"fmt"
	"strings"

	"goloc/internal/config"
	"goloc/internal/console"
	"goloc/internal/languages"
	"goloc/internal/report"
	"goloc/internal/scanner"

	"github.com/spf13/cobra"
)

// scanOptions 存放 scan 命令的可配置参数。
type scanOptions struct {
	depth     string
	format    string
	output    string
	workers   int
	hideEmpty bool
	showFiles bool
}

// newScanCmd 创建 scan 子命令。
// 示例：
//
//	goloc scan . all
//	goloc scan ./project 2 .py .ipynb
//	goloc scan ./project 0 --format json --output result.json
func newScanCmd(registry *languages.Registry, cfg config.Config, root *rootOptions) *cobra.Command {
	options := scanOptions{
		depth:   cfg.Depth,
		format:  cfg.Format,
		output:  cfg.Output,
		workers: cfg.Workers,
	}

	scanCmd := &cobra.Command{
		Use:   "scan <target_directory> [depth] [file_types...]",
		Short: "扫描目录并按文件后缀输出统计表",
		Long: "target_directory: 要统计的目录。\n" +
			"depth: 非负整数或 \"all\"。\n" +
			"  depth 为 0 或 all 时遍历全部子目录；\n" +
			"  depth 为正整数 n 时最多进入 n 层子目录。\n" +
			"  省略时使用 GOLOC_DEPTH（默认 all）。\n" +
			"file_types: 只统计这些后缀（例如 .py .ipynb），省略时统计全部已支持后缀。",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := config.ParseFormat(options.format)
			if err != nil {
				return err
			}

			if options.workers <= 0 {
				return errors.New("workers must be greater than 0")
			}

			rawDepth := options.depth
			if len(args) > 1 {
				rawDepth = args[1]
			}
			maxDepth, err := config.ParseDepth(rawDepth)
			if err != nil {
				return err
			}

			var fileTypes []string
			if len(args) > 2 {
				fileTypes = args[2:]
			}

			service := scanner.NewService(registry, options.workers)
			result, err := service.ScanPath(cmd.Context(), args[0], scanner.Options{
				MaxDepth:   maxDepth,
				Extensions: fileTypes,
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			tableOptions := report.TableOptions{
				Color:     console.Enabled(root.mode, out),
				HideEmpty: options.hideEmpty,
				ShowFiles: options.showFiles,
			}
			if err := report.Print(out, format, result, tableOptions); err != nil {
				return err
			}

			outputPath := strings.TrimSpace(options.output)
			if outputPath == "" {
				return nil
			}
			if err := report.WriteFile(outputPath, report.ExportFormat(outputPath), result); err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Report exported to %s\n", outputPath)
			return nil
		},
	}

	scanCmd.Flags().StringVar(&options.format, "format", options.format, "输出格式: table、json 或 yaml")
	scanCmd.Flags().StringVar(&options.output, "output", options.output, "导出文件路径，.yaml/.yml 导出 YAML，其余导出 JSON")
	scanCmd.Flags().IntVar(&options.workers, "workers", options.workers, "并发 worker 数量")
	scanCmd.Flags().BoolVar(&options.hideEmpty, "hide-empty", false, "隐藏没有命中文件的后缀")
	scanCmd.Flags().BoolVar(&options.showFiles, "files", false, "额外输出文件级明细")

	return scanCmd
}
