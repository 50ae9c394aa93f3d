package cmd

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"goloc/internal/languages"

	"github.com/spf13/cobra"
)

// newLanguageCmd 创建 language 子命令，列出支持的语言、后缀与注释标记。
func newLanguageCmd(registry *languages.Registry) *cobra.Command {
	return &cobra.Command{
		Use:   "language",
		Short: "展示支持的语言、后缀与注释标记",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			writer := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)

			if _, err := fmt.Fprintln(writer, "LANGUAGE\tEXTENSIONS\tCOMMENTS"); err != nil {
				return err
			}

			for _, item := range registry.Languages() {
				if _, err := fmt.Fprintf(
					writer,
					"%s\t%s\t%s\n",
					item.Name,
					strings.Join(item.Extensions, ", "),
					strings.Join(item.Comments, "  "),
				); err != nil {
					return err
				}
			}

			return writer.Flush()
		},
	}
}
