package main

import (
	"context"
	"fmt"
	"net"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"

	"lrukv/internal/command"
	"lrukv/internal/config"
	"lrukv/internal/logging"
	"lrukv/internal/protocol"
	"lrukv/internal/server"
	storage "lrukv/internal/storage/cache"
	"lrukv/internal/storage/reporter"
)

// newRootCmd собирает корневую команду: без подкоманды lrukv обслуживает клиентов.
func newRootCmd() *cobra.Command {
	loader := config.NewLoader()
	var cfgFile string

	cmd := &cobra.Command{
		Use:           "lrukv",
		Short:         "In-memory LRU key-value server speaking a Redis-like protocol",
		Long:          `lrukv keeps up to max-size keys in memory, evicts the least recently used one on overflow and serves redis-cli and telnet clients over TCP.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loader.Load(cfgFile)
			if err != nil {
				return err
			}

			log := logging.New(cfg.Logging())
			if f := loader.FileUsed(); f != "" {
				log.Info().Str("file", f).Msg("config loaded")
			}
			return run(logging.WithContext(cmd.Context(), log), cfg)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&cfgFile, "config", "c", "", "path to config file (toml, yaml or json)")
	flags.String("addr", "", "TCP address to listen on (default \":6379\")")
	flags.Int("max-size", 0, "initial cache capacity in keys (default 100)")
	flags.Duration("idle-timeout", 0, "close connections idle longer than this (default 5m0s)")
	flags.Int("read-buffer", 0, "read buffer size in bytes, also the max message size (default 65536)")
	flags.Int("max-clients", 0, "max concurrent connections, 0 = unlimited")
	flags.Duration("stats-interval", 0, "log cache stats every interval, 0 = disabled")
	flags.String("log-level", "", "log level: trace, debug, info, warn, error (default \"info\")")
	flags.String("log-format", "", "log format: console or json (default \"console\")")

	bindFlags(loader, flags, map[string]string{
		config.KeyAddr:          "addr",
		config.KeyMaxSize:       "max-size",
		config.KeyIdleTimeout:   "idle-timeout",
		config.KeyReadBuffer:    "read-buffer",
		config.KeyMaxClients:    "max-clients",
		config.KeyStatsInterval: "stats-interval",
		config.KeyLogLevel:      "log-level",
		config.KeyLogFormat:     "log-format",
	})

	cmd.AddCommand(newPingCmd())
	cmd.AddCommand(newVersionCmd())
	return cmd
}

// bindFlags привязывает флаги к ключам конфига. Незаданный флаг
// не перекрывает файл и окружение: viper берёт его значение только при Changed.
func bindFlags(loader *config.Loader, flags *pflag.FlagSet, keys map[string]string) {
	v := loader.Viper()
	for key, name := range keys {
		if err := v.BindPFlag(key, flags.Lookup(name)); err != nil {
			panic(fmt.Sprintf("bind flag %s: %v", name, err))
		}
	}
}

// run открывает порт и обслуживает клиентов до отмены ctx.
func run(ctx context.Context, cfg *config.Config) error {
	ln, err := net.Listen("tcp", cfg.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", cfg.Addr, err)
	}
	return serve(ctx, cfg, ln)
}

// serve запускает сервер и reporter в одной группе.
// Остановка одного из них останавливает и второй.
// Логгер берётся из ctx, без него процесс молчит.
func serve(ctx context.Context, cfg *config.Config, ln net.Listener) error {
	log := logging.FromContext(ctx)
	cache := storage.New(cfg.MaxSize, storage.WithEvictHandler(func(key string, _ protocol.Value) {
		log.Debug().Str("key", key).Msg("evicted")
	}))

	d := command.New(cache, command.WithLogger(componentLogger(ctx, "command")))
	srv := server.New(cfg.Addr, d,
		server.WithLogger(componentLogger(ctx, "server")),
		server.WithIdleTimeout(cfg.IdleTimeout),
		server.WithReadBufferSize(cfg.ReadBuffer),
		server.WithMaxClients(cfg.MaxClients),
	)
	rep := reporter.New(cache, cfg.StatsInterval, componentLogger(ctx, "reporter"))

	log.Info().
		Int("max_size", cfg.MaxSize).
		Int("max_clients", cfg.MaxClients).
		Dur("idle_timeout", cfg.IdleTimeout).
		Msg("starting lrukv")

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer cancel()
		return srv.Serve(gctx, ln)
	})
	g.Go(func() error {
		return rep.Run(gctx)
	})

	err := g.Wait()
	log.Info().Msg("Bye!")
	return err
}

func componentLogger(ctx context.Context, component string) zerolog.Logger {
	return *logging.FromContext(logging.WithComponent(ctx, component))
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "lrukv %s\n", version)
			fmt.Fprintf(out, "commit: %s\n", commit)
			fmt.Fprintf(out, "built: %s\n", buildDate)
		},
	}
}
