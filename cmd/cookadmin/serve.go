package main

import (
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/whiteelite/cookadmin/internal/devserver"
)

func newServeCmd(a *app) *cobra.Command {
	var addr, token string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run an in-memory development backend",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := a.cfg.DevServer
			if cmd.Flags().Changed("addr") {
				cfg.Addr = addr
			}
			if cmd.Flags().Changed("token") {
				cfg.Token = token
			}

			if a.cfg.Log.Level != "debug" {
				gin.SetMode(gin.ReleaseMode)
			}
			srv := devserver.New(devserver.Config{
				Addr:     cfg.Addr,
				Token:    cfg.Token,
				Logger:   a.logger.Named("devserver"),
				Registry: a.metricsRegistry(),
			}, nil)
			return srv.Run(cmd.Context())
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address")
	cmd.Flags().StringVar(&token, "token", "", "require this bearer token on every API call")
	return cmd
}
