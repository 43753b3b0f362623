package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"classmin/internal/obfuscator"
	"classmin/internal/server"
	"classmin/internal/ui"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the minifier over HTTP",
	Long: `Serve the minifier over HTTP.

  GET  /healthz   health check
  POST /minify    minify the HTML request body, returns JSON

Alphabet, whitelist and compaction are taken from classmin.yaml when present.`,
	Run: func(cmd *cobra.Command, args []string) {
		ui.PrintHeader(Version)

		cfg, log := mustLoad(false)
		defer log.Sync()

		alphabet := cfg.Alphabet
		if alphabet == "" {
			alphabet = obfuscator.DefaultAlphabet
		}
		srv := server.NewServer(
			server.WithLogger(log),
			server.WithSessionOptions(
				obfuscator.WithAlphabet(alphabet),
				obfuscator.WithWhitelist(cfg.Whitelist...),
				obfuscator.WithCompact(cfg.Compact),
			),
		)

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		ui.PrintInfo("Listening on %s", serveAddr)
		ui.PrintInfo("Press Ctrl+C to stop")
		log.Debug("Server starting", zap.String("addr", serveAddr))

		if err := srv.ListenAndServe(ctx, serveAddr); err != nil {
			ui.PrintError("Server failed: %v", err)
			os.Exit(1)
		}
		ui.PrintInfo("Server stopped")
	},
}

func init() {
	serveCmd.Flags().StringVarP(&serveAddr, "addr", "a", ":8080", "Address to listen on")
	rootCmd.AddCommand(serveCmd)
}
