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

package cmd

import (
	"os"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"github.com/KaKaR0t05/MailDownloader/cmd/oauthlogin"
	"github.com/KaKaR0t05/MailDownloader/cmd/run"
)

func Main() {
	// Credentials may live in a .env file next to the binary; flags
	// pick them up through their MAILDOWNLOADER_* env vars.
	if err := godotenv.Load(); err == nil {
		log.Debug("dotenv_loaded")
	}

	app := cli.App{
		Name:  "maildownloader",
		Usage: os.Args[0],
		Description: `MailDownloader polls mailbox accounts over IMAP, saves the
attachments of unread messages from configured senders into a per-day
directory, and marks the processed messages as read.
`,
	}

	run.RegisterCommand(&app)
	oauthlogin.RegisterCommand(&app)

	err := app.Run(os.Args)
	if err != nil {
		log.Fatal(err)
	}
}
