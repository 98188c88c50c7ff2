package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/whiteelite/cookadmin/internal/console"
	domain "github.com/whiteelite/cookadmin/internal/domain/entities"
	"github.com/whiteelite/cookadmin/internal/infrastructure/http/resources"
	shared "github.com/whiteelite/cookadmin/pkg/shared/domain/entities"
)

func newWatchCmd(a *app) *cobra.Command {
	var metricsAddr string
	cmd := &cobra.Command{
		Use:   "watch <ingredient-categories|ingredients|dish-categories>",
		Short: "Print a list again every time it changes",
		Long: `watch keeps one list on screen and refetches it whenever it is invalidated,
by this console or, with kafka enabled, by any other console.`,
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"ingredient-categories", "ingredients", "dish-categories"},
		RunE: func(cmd *cobra.Command, args []string) error {
			con, err := a.openConsole()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			if metricsAddr != "" {
				stop := a.serveMetrics(metricsAddr)
				defer stop()
			}

			switch args[0] {
			case "ingredient-categories", resources.IngredientCategoriesName:
				return watchSection(ctx, con, con.IngredientCategories, out, renderCategories)
			case resources.IngredientsName:
				return watchSection(ctx, con, con.Ingredients, out, func(list []domain.Ingredient) string {
					return renderIngredients(list, func(ing domain.Ingredient) string {
						return con.CategoryName(ctx, ing)
					})
				})
			case "dish-categories", resources.DishCategoriesName:
				return watchSection(ctx, con, con.DishCategories, out, renderDishCategories)
			default:
				return fmt.Errorf("unknown list %q", args[0])
			}
		},
	}
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "serve client metrics on this address")
	return cmd
}

func watchSection[T shared.Entity, C any, U any](
	ctx context.Context,
	con *console.Console,
	section *console.Section[T, C, U],
	out io.Writer,
	render func([]T) string,
) error {
	runCtx, cancel := context.WithCancel(ctx)
	running := make(chan struct{})
	go func() {
		defer close(running)
		con.Run(runCtx)
	}()
	defer func() {
		cancel()
		<-running
	}()

	snapshots, stop := section.Watch()
	defer stop()

	// The first fetch is delivered to the watcher like any later one.
	_, _ = section.Refresh(ctx)

	for {
		select {
		case <-ctx.Done():
			return nil
		case snap, ok := <-snapshots:
			if !ok {
				return nil
			}
			fmt.Fprintln(out, mutedStyle.Render(section.Name()+" @ "+snap.FetchedAt.Local().Format(time.TimeOnly)))
			if snap.Err != nil {
				fmt.Fprintln(out, errorStyle.Render(snap.Err.Error()))
				continue
			}
			fmt.Fprintln(out, render(snap.Data))
		}
	}
}

func (a *app) serveMetrics(addr string) func() {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(a.metricsRegistry(), promhttp.HandlerOpts{}))
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Warn("metrics server stopped", zap.Error(err))
		}
	}()
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}
}
