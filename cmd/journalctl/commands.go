package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/journal-content-api/internal/config"
	"github.com/journal-content-api/internal/content"
	"github.com/journal-content-api/internal/database"
	"github.com/journal-content-api/internal/models"
	"github.com/journal-content-api/internal/repository"
	"github.com/journal-content-api/internal/service"
	"github.com/journal-content-api/pkg/logger"
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "journalctl",
		Short:         "Operator tooling for the journal content API",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	root.AddCommand(
		newMigrateCommand(),
		newAdminCommand(),
		newSlugCommand(),
		newYouTubeIDCommand(),
	)
	return root
}

// openDatabase loads configuration and connects, for commands that touch PostgreSQL
func openDatabase() (*config.Config, *database.DB, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("load configuration: %w", err)
	}
	db, err := database.New(&cfg.Database, logger.New())
	if err != nil {
		return nil, nil, err
	}
	return cfg, db, nil
}

func newMigrateCommand() *cobra.Command {
	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema",
	}

	migrateCmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply all pending migrations",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				cfg, db, err := openDatabase()
				if err != nil {
					return err
				}
				defer db.Close()
				return db.RunMigrations(cfg.Database.MigrationsPath)
			},
		},
		&cobra.Command{
			Use:   "down",
			Short: "Roll back the last migration",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				cfg, db, err := openDatabase()
				if err != nil {
					return err
				}
				defer db.Close()
				return db.MigrateDown(cfg.Database.MigrationsPath)
			},
		},
		&cobra.Command{
			Use:   "goto <version>",
			Short: "Migrate up or down to a specific version",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				version, err := strconv.ParseUint(args[0], 10, 32)
				if err != nil {
					return fmt.Errorf("invalid version %q", args[0])
				}
				cfg, db, err := openDatabase()
				if err != nil {
					return err
				}
				defer db.Close()
				return db.MigrateToVersion(cfg.Database.MigrationsPath, uint(version))
			},
		},
	)
	return migrateCmd
}

func newAdminCommand() *cobra.Command {
	adminCmd := &cobra.Command{
		Use:   "admin",
		Short: "Manage admin console accounts",
	}

	var req models.CreateUserRequest
	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Create an admin console account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if req.Password == "" {
				req.Password = os.Getenv("JOURNAL_ADMIN_PASSWORD")
			}

			cfg, db, err := openDatabase()
			if err != nil {
				return err
			}
			defer db.Close()

			services := service.NewServices(repository.New(db), cfg, service.Options{}, logger.New())
			user, err := services.Auth.CreateUser(cmd.Context(), &req)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created %s account %s (%s)\n", user.Role, user.Email, user.ID)
			return nil
		},
	}
	createCmd.Flags().StringVar(&req.Email, "email", "", "account email (required)")
	createCmd.Flags().StringVar(&req.Name, "name", "", "display name (required)")
	createCmd.Flags().StringVar(&req.Role, "role", models.RoleEditor, "account role: admin or editor")
	createCmd.Flags().StringVar(&req.Password, "password", "", "account password (falls back to JOURNAL_ADMIN_PASSWORD)")
	_ = createCmd.MarkFlagRequired("email")
	_ = createCmd.MarkFlagRequired("name")

	adminCmd.AddCommand(createCmd)
	return adminCmd
}

func newSlugCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "slug <title>",
		Short: "Print the URL slug derived from a title",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			slug := content.Slugify(args[0])
			if slug == "" {
				return fmt.Errorf("title %q has no characters usable in a slug", args[0])
			}
			fmt.Fprintln(cmd.OutOrStdout(), slug)
			return nil
		},
	}
}

func newYouTubeIDCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "youtube-id <url>",
		Short: "Print the video ID and thumbnail for a YouTube URL",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, ok := content.ExtractYouTubeID(args[0])
			if !ok {
				return fmt.Errorf("not a recognized YouTube URL: %s", args[0])
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, id)
			fmt.Fprintln(out, content.YouTubeThumbnailURL(id))
			return nil
		},
	}
}
