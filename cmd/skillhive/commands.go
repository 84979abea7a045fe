package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/skillhive/skillhive-go/internal/config"
	"github.com/skillhive/skillhive-go/internal/db"
	"github.com/skillhive/skillhive-go/internal/middleware"
	"github.com/skillhive/skillhive-go/internal/questions"
	"github.com/skillhive/skillhive-go/internal/youtube"
)

var cfgFile string

func newRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "skillhive",
		Short: "Skill Hive command line tools",
		Long: `skillhive searches videos and generates learning guides the same way the
web front end does, and applies the database schema.`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "YAML config file (overrides CONFIG_FILE)")

	rootCmd.AddCommand(newSearchCommand())
	rootCmd.AddCommand(newQuestionsCommand())
	rootCmd.AddCommand(newMigrateCommand())
	return rootCmd
}

func loadConfig() (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if cfgFile != "" {
		cfg, err = config.LoadFile(cfgFile)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}
	middleware.InitLogger(cfg.LogLevel, "skillhive-cli")
	return cfg, nil
}

func newSearchCommand() *cobra.Command {
	var (
		method     string
		maxResults int
	)
	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search YouTube and print the videos as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if maxResults <= 0 {
				maxResults = cfg.YouTubeMaxResults
			}

			client := youtube.NewClient(cfg.YouTubeAPIKey,
				youtube.WithSearchURL(cfg.YouTubeSearchURL),
				youtube.WithMaxResults(maxResults),
				youtube.WithOrder(cfg.YouTubeOrder),
				youtube.WithLogger(middleware.Component("youtube")),
			)
			videos, err := client.Fetch(cmd.Context(), middleware.ValidateQuery(args[0]), method)
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(videos)
		},
	}
	cmd.Flags().StringVarP(&method, "method", "m", "", `text appended to the query, e.g. " tutorial"`)
	cmd.Flags().IntVarP(&maxResults, "max", "n", 0, "maximum results (default from config)")
	return cmd
}

func newQuestionsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "questions <topic>",
		Short: "Generate a learning guide and print one question per line",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			gen, err := questions.NewGeminiGenerator(cmd.Context(), cfg.GeminiAPIKey, cfg.GeminiModel, cfg.GeminiBaseURL,
				&http.Client{Timeout: 60 * time.Second})
			if err != nil {
				return err
			}

			text, err := gen.Generate(cmd.Context(), questions.Prompt(middleware.ValidateQuery(args[0])))
			if err != nil {
				return fmt.Errorf("generate: %w", err)
			}
			list, strict := questions.Parse(text)
			if !strict {
				middleware.Logger.Warn().Msg("model output was not a JSON array; used loose split")
			}
			for _, q := range list {
				fmt.Fprintln(cmd.OutOrStdout(), q)
			}
			return nil
		},
	}
}

func newMigrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply the users schema to DATABASE_URL",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()

			pool, err := db.NewPool(ctx, cfg.DatabaseURL, middleware.Component("db"))
			if err != nil {
				return err
			}
			defer pool.Close()

			if err := db.Migrate(ctx, pool); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "schema applied")
			return nil
		},
	}
}
