// Command synapsectl runs maintenance tasks against the session store.
package main

import (
	"fmt"
	"log"
	"os"

	_ "github.com/joho/godotenv/autoload" // Autoload .env file.
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/ieee-synapse/synapse-api/cmd/app"
	"github.com/ieee-synapse/synapse-api/internal/export"
	"github.com/ieee-synapse/synapse-api/internal/logger"
	"github.com/ieee-synapse/synapse-api/internal/repository"
	"github.com/ieee-synapse/synapse-api/internal/service"
	"github.com/ieee-synapse/synapse-api/internal/session"
)

func main() {
	cliApp := &cli.App{
		Name:  "synapsectl",
		Usage: "maintenance for session partitions",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Value:   app.ConfigPath,
				Usage:   "path to the configuration file",
				EnvVars: []string{"SYNAPSE_CONFIG"},
			},
		},
		Commands: []*cli.Command{
			newSessionsCommand(),
			newAuditCommand(),
			newExportCommand(),
		},
	}

	if err := cliApp.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

var sessionFlag = &cli.StringFlag{
	Name:     "session",
	Usage:    "session partition, YYYY_YYYY",
	Required: true,
}

// withStore opens the store for the duration of fn.
func withStore(c *cli.Context, fn func(store repository.Store, sessions *session.Resolver) error) error {
	conf, err := app.Init(c.String("config"))
	if err != nil {
		return err
	}
	defer logger.Sync()

	store, err := app.OpenStore(c.Context, conf)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			zap.L().Warn("failed to close store", zap.Error(err))
		}
	}()

	return fn(store, session.NewResolver(store))
}

func newSessionsCommand() *cli.Command {
	return &cli.Command{
		Name:  "sessions",
		Usage: "list session partitions and admin tables",
		Action: func(c *cli.Context) error {
			return withStore(c, func(store repository.Store, sessions *session.Resolver) error {
				parts, err := store.Partitions(c.Context)
				if err != nil {
					return err
				}
				admins, err := store.AdminSessions(c.Context)
				if err != nil {
					return err
				}

				hasAdmins := make(map[string]bool, len(admins))
				for _, id := range admins {
					hasAdmins[id.String()] = true
				}

				out := c.App.Writer
				fmt.Fprintf(out, "current: %s\n", sessions.Current())
				for _, id := range parts {
					fmt.Fprintf(out, "%s\tadmins=%t\n", id, hasAdmins[id.String()])
				}

				return nil
			})
		},
	}
}

func newAuditCommand() *cli.Command {
	return &cli.Command{
		Name:  "audit",
		Usage: "check event indexes against user and team records",
		Flags: []cli.Flag{
			sessionFlag,
			&cli.BoolFlag{
				Name:  "repair",
				Usage: "rewrite event indexes from user and team records",
			},
		},
		Action: func(c *cli.Context) error {
			return withStore(c, func(store repository.Store, sessions *session.Resolver) error {
				audit := service.NewAuditService(store, sessions)

				run := audit.Audit
				if c.Bool("repair") {
					run = audit.Repair
				}
				report, err := run(c.Context, c.String("session"))
				if err != nil {
					return err
				}

				out := c.App.Writer
				for _, f := range report.Findings {
					fmt.Fprintf(out, "%s\tevent=%s user=%s team=%s\n", f.Kind, f.EventID, f.UserID, f.TeamID)
				}
				fmt.Fprintf(out, "%s: %d findings, %d repaired\n", report.Session, len(report.Findings), report.Repaired)

				return nil
			})
		},
	}
}

func newExportCommand() *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "write user, team and event summaries to a workbook",
		Flags: []cli.Flag{
			sessionFlag,
			&cli.StringFlag{
				Name:  "out",
				Value: "report.xlsx",
				Usage: "output file",
			},
		},
		Action: func(c *cli.Context) error {
			return withStore(c, func(store repository.Store, sessions *session.Resolver) error {
				f, err := os.Create(c.String("out"))
				if err != nil {
					return fmt.Errorf("os.Create -> %w", err)
				}
				defer f.Close()

				reports := service.NewReportService(store, sessions)
				if err = export.Write(c.Context, reports, c.String("session"), f); err != nil {
					return err
				}

				fmt.Fprintf(c.App.Writer, "wrote %s\n", c.String("out"))
				return nil
			})
		},
	}
}
