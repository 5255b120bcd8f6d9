package cli

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"crypto-signal-bot/internal/bot"
	"crypto-signal-bot/internal/notify"
)

func newRunCmd(app *App) *cobra.Command {
	var terminal bool

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Start the signal monitoring loop",
		Long: `Run continuously analyzes the configured symbols and timeframes on the
check interval and delivers generated signals through the configured
notification channels. Stop with Ctrl+C.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			notifier := notify.NewMultiNotifier(app.Config.Notifications)
			if terminal {
				notifier.AddChannel(notify.NewTerminalChannel())
			}

			session, err := bot.NewSession(bot.Options{
				Config:    app.Config,
				Collector: app.Collector,
				Analyzer:  app.newAnalyzer(),
				Generator: app.newGenerator(),
				Notifier:  notifier,
				Journal:   app.Store,
				Logger:    app.Logger,
			})
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			if err := session.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&terminal, "terminal", true, "also print signals to the terminal")

	return cmd
}
