package cmd_serve

import (
	"github.com/spf13/cobra"

	"github.com/st3ffan/hack-the-stackathon/pkg/cmd/root_cmd"
)

func NewServeCmd(rootCmd *root_cmd.RootCmd) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run one of the demo web applications",
	}
	cmd.AddCommand(
		NewSearchCmd(rootCmd),
		NewListingCmd(rootCmd),
	)
	return cmd
}

func hostOr(flag, fallback string) string {
	if flag != "" {
		return flag
	}
	return fallback
}

func portOr(flag, fallback int) int {
	if flag > 0 {
		return flag
	}
	return fallback
}
