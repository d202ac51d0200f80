package main

import (
	"os"

	"taskboard/internal/config"
	"taskboard/internal/server"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd(config.Load()).Execute(); err != nil {
		log.Errorf("❌ %v", err)
		os.Exit(1)
	}
}

// newRootCmd serves the board. Flags default to the environment and
// override it when given.
func newRootCmd(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "taskboard",
		Short:         "Serve a shared kanban board over a websocket",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := server.Init(cfg)
			if err != nil {
				return err
			}
			s.Run()
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&cfg.ServerPort, "port", cfg.ServerPort, "HTTP listen port")
	flags.StringVar(&cfg.SeedSource, "seed", cfg.SeedSource, "where the starting board comes from: fixture or postgres")
	flags.StringVar(&cfg.RedisAddr, "redis-addr", cfg.RedisAddr, "Redis address for comment dedupe; in-memory when empty")
	flags.BoolVar(&cfg.Debug, "debug", cfg.Debug, "debug logging and gin debug mode")

	return cmd
}
