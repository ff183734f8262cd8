/*
 * MailDownloader - Copyright (C) 2024 KaKaR0t05
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU General Public License version 2, and only
 * version 2 as published by the Free Software Foundation.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU General Public License
 * along with this program; if not, write to the Free Software
 * Foundation, Inc., 59 Temple Place, Suite 330, Boston, MA  02111-1307  USA
 */

package run

import (
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"github.com/KaKaR0t05/MailDownloader/cmd/config"
	"github.com/KaKaR0t05/MailDownloader/harvest"
)

func RegisterCommand(app *cli.App) *cli.App {
	cfg := config.DefaultConfig()
	app.Commands = append(app.Commands, &cli.Command{
		Name:  "run",
		Usage: "Run one harvesting pass over all configured accounts",
		Flags: cfg.Parameters(),
		Before: func(context *cli.Context) error {
			return cfg.Resolve()
		},
		Action: func(context *cli.Context) error {
			return run(context, &cfg)
		},
	})
	return app
}

func run(_ *cli.Context, cfg *config.Configuration) error {
	logLevel, err := log.ParseLevel(cfg.LogLevel)
	if err == nil {
		log.SetLevel(logLevel)
	}

	if cfg.LogFormat == "json" {
		log.SetFormatter(&log.JSONFormatter{})
	}

	log.WithFields(log.Fields{
		"accounts":   len(cfg.ResolvedAccounts),
		"log_level":  cfg.LogLevel,
		"log_format": cfg.LogFormat,
	}).Info("starting")

	// One pass and out; periodic invocation belongs to the scheduler
	// (cron, systemd timer) driving this binary.
	harvest.RunAll(cfg.ResolvedAccounts)

	log.Info("finished")
	return nil
}
