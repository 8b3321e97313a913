package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"hemicycle/internal/app"
	"hemicycle/internal/config"
	"hemicycle/internal/db"
	"hemicycle/internal/logger"
	"hemicycle/internal/models"
	"hemicycle/internal/utils"

	"github.com/spf13/cobra"
)

const programName = "hemicycle-admin"

var globalFlags = struct {
	debug bool
}{}

func commonRun(ctx context.Context) (*app.App, error) {
	cfg := config.Load()
	mode := "prod"
	if globalFlags.debug {
		mode = "dev"
	}
	log, err := logger.New(mode)
	if err != nil {
		return nil, err
	}
	return app.New(ctx, cfg, log.With("component", programName))
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func scoreCommand() *cobra.Command {
	var all bool
	cmd := &cobra.Command{
		Use:   "score [candidate-id]",
		Short: "Recompute axis and coherence scores of a candidate",
		Args: func(cmd *cobra.Command, args []string) error {
			if all && len(args) > 0 {
				return fmt.Errorf("--all takes no candidate id")
			}
			if !all && len(args) != 1 {
				return fmt.Errorf("a candidate id or --all is required")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := commonRun(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			var ids []uint
			if all {
				if err := a.DB.WithContext(cmd.Context()).Model(&models.Candidate{}).Order("id ASC").Pluck("id", &ids).Error; err != nil {
					return err
				}
			} else {
				id, ok := utils.ParseID(args[0])
				if !ok {
					return fmt.Errorf("invalid candidate id %q", args[0])
				}
				ids = []uint{id}
			}

			failed := 0
			for _, id := range ids {
				res, err := a.Scores.ComputeAndStore(cmd.Context(), id)
				if err != nil {
					failed++
					fmt.Fprintf(os.Stderr, "candidate %d: %v\n", id, err)
					continue
				}
				if err := printJSON(res); err != nil {
					return err
				}
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d candidates failed", failed, len(ids))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "score every candidate")
	return cmd
}

func statsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "stats <legislator-id>",
		Short: "Print presence, loyalty and activity of a legislator",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, ok := utils.ParseID(args[0])
			if !ok {
				return fmt.Errorf("invalid legislator id %q", args[0])
			}
			a, err := commonRun(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			// bypass the cache so the numbers are fresh
			a.Stats.Invalidate(cmd.Context(), id)
			stats, err := a.Stats.ComputeStats(cmd.Context(), id)
			if err != nil {
				return err
			}
			return printJSON(stats)
		},
	}
}

func migrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Run schema migrations and seed the quiz",
		RunE: func(cmd *cobra.Command, args []string) error {
			// app.New migrates and seeds on connect
			a, err := commonRun(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()
			return db.SeedQuestions(a.DB, a.Log)
		},
	}
}

func main() {
	rootCmd := &cobra.Command{
		Use:           programName,
		Short:         "Administration tasks for the hemicycle service",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	rootCmd.PersistentFlags().BoolVarP(&globalFlags.debug, "debug", "D", false, "enable debug logging")
	rootCmd.AddCommand(scoreCommand(), statsCommand(), migrateCommand())

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
