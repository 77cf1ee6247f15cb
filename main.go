package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/lazharichir/blackjack/config"
	"github.com/lazharichir/blackjack/domain"
	"github.com/lazharichir/blackjack/domain/events"
	"github.com/lazharichir/blackjack/relay"
	"github.com/lazharichir/blackjack/server"
	"github.com/lazharichir/blackjack/table"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	v := config.New()
	var configFile string

	rootCmd := &cobra.Command{
		Use:           "blackjack",
		Short:         "Multiplayer blackjack table server",
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (yaml, json or toml)")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the websocket server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(v, configFile)
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cfg)
		},
	}
	serveCmd.Flags().String("addr", "", "listen address")
	serveCmd.Flags().Int("max-players", 0, "seats at the default table")
	serveCmd.Flags().Int("decks", 0, "decks in the default table's shoe")
	serveCmd.Flags().String("log-level", "", "log level")
	serveCmd.Flags().String("redis-addr", "", "redis address for the event relay")
	bindFlag(v, "server.addr", serveCmd, "addr")
	bindFlag(v, "table.max_players", serveCmd, "max-players")
	bindFlag(v, "table.num_decks", serveCmd, "decks")
	bindFlag(v, "log.level", serveCmd, "log-level")
	bindFlag(v, "redis.addr", serveCmd, "redis-addr")

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version)
		},
	}

	rootCmd.AddCommand(serveCmd, versionCmd)
	return rootCmd
}

// bindFlag lets an explicitly set flag override the config file and environment
func bindFlag(v *viper.Viper, key string, cmd *cobra.Command, flag string) {
	if err := v.BindPFlag(key, cmd.Flags().Lookup(flag)); err != nil {
		panic(err)
	}
}

func serve(ctx context.Context, cfg config.Config) error {
	log := cfg.NewLogger()

	lobby := domain.NewLobby(log)

	history := events.NewInMemoryEventStore(cfg.Server.HistoryLimit)
	lobby.AddEventHandler(func(e events.Event) {
		if err := history.Append(e); err != nil {
			log.WithError(err).WithField("event", e.Name()).Warn("event not recorded")
		}
	})

	if cfg.Redis.Addr != "" {
		rdb, err := relay.Dial(ctx, cfg.Redis.Addr)
		if err != nil {
			return fmt.Errorf("connect redis %s: %w", cfg.Redis.Addr, err)
		}
		defer rdb.Close()

		r := relay.New(rdb, cfg.Redis.Channel, log)
		lobby.AddEventHandler(r.HandleEvent)
		relayCtx, stopRelay := context.WithCancel(ctx)
		go r.Run(relayCtx)
		// runs before rdb.Close so queued events still reach redis
		defer func() {
			stopRelay()
			<-r.Done()
		}()
		log.WithFields(logrus.Fields{"addr": cfg.Redis.Addr, "channel": cfg.Redis.Channel}).Info("event relay enabled")
	}

	if _, err := lobby.CreateTable(cfg.Table.Name, cfg.Rules()); err != nil {
		return fmt.Errorf("create default table: %w", err)
	}

	loops := table.NewLoops(log)
	defer loops.StopAll()

	s := server.NewServer(lobby, loops, history, log)
	return s.Start(ctx, cfg.Server.Addr)
}
