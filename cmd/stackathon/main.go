package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/atomic"

	"github.com/st3ffan/hack-the-stackathon/internal/build"
	"github.com/st3ffan/hack-the-stackathon/pkg/api/logger/color"
	"github.com/st3ffan/hack-the-stackathon/pkg/cmd/cmd_embed"
	"github.com/st3ffan/hack-the-stackathon/pkg/cmd/cmd_seed"
	"github.com/st3ffan/hack-the-stackathon/pkg/cmd/cmd_serve"
	"github.com/st3ffan/hack-the-stackathon/pkg/cmd/root_cmd"
)

func main() {
	rootParams := &root_cmd.Params{
		IsCanceled: atomic.NewBool(false),
		CancelFunc: func() {},
	}

	rootCmdInstance := &root_cmd.RootCmd{
		Params: rootParams,
	}
	ctx, cancel := context.WithCancel(context.Background())

	rootParams.CancelFunc = cancel

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-quit
		rootParams.IsCanceled.Store(true)
		cancel()
	}()

	rootCmd := &cobra.Command{
		Use:           "stackathon",
		Version:       build.Version,
		Short:         "Multimodal image search and corporation listing demo on MongoDB Atlas",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := rootCmdInstance.Init(); err != nil {
				return err
			}
			rootCmdInstance.ApplyLogLevel(cmd)
			return nil
		},
	}
	rootCmd.SetContext(ctx)
	rootCmd.SetVersionTemplate("{{printf \"%s\\n\" .Version}}")

	rootCmd.AddCommand(
		cmd_embed.NewEmbedCmd(rootCmdInstance),
		cmd_serve.NewServeCmd(rootCmdInstance),
		cmd_seed.NewSeedCmd(rootCmdInstance),
	)

	rootCmd.PersistentFlags().BoolVarP(&rootParams.Verbose, "verbose", "v", rootParams.Verbose, "Verbose mode")
	rootCmd.PersistentFlags().BoolVarP(&rootParams.Silent, "silent", "s", rootParams.Silent, "Only print errors")
	rootCmd.PersistentFlags().StringVarP(&rootParams.ConfigPath, "config", "c", rootParams.ConfigPath, "Settings file (default: ./"+root_cmd.DefaultConfigFile+" when present)")

	err := rootCmd.Execute()
	if err != nil {
		_, _ = os.Stderr.WriteString(color.RedFmt("Error executing command: %s\n", err.Error()))
		os.Exit(1)
	}
}
