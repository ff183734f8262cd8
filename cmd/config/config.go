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

package config

import (
	"encoding/json"
	"fmt"
	"io/ioutil"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"github.com/KaKaR0t05/MailDownloader/harvest"
	"github.com/KaKaR0t05/MailDownloader/imap/client"
)

const (
	DefaultLogLevel  = "info"
	DefaultLogFormat = "text"
	DefaultMailbox   = "INBOX"

	// The original deployment targeted Gmail; an account without an
	// explicit URL still points there.
	DefaultAccountURL = "imaps://imap.gmail.com:993/INBOX"
)

func DefaultIMAPConfig() IMAPConfig {
	return IMAPConfig{
		AuthMethod:    "normal",
		TLSSkipVerify: false,
		Debug:         false,
	}
}

func DefaultConfig() Configuration {
	return Configuration{
		ConfigPath: "config.json",
		LogLevel:   DefaultLogLevel,
		LogFormat:  DefaultLogFormat,
		Logger:     log.StandardLogger(),
	}
}

func (cfg *Configuration) Parameters() []cli.Flag {
	def := DefaultConfig()
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "config",
			Aliases:     []string{"c"},
			Usage:       "path to configuration file, or '-' to read from stdin",
			EnvVars:     []string{"MAILDOWNLOADER_CONFIG"},
			Value:       def.ConfigPath,
			Destination: &cfg.ConfigPath,
		},
		&cli.StringFlag{
			Name:        "log-level",
			Usage:       "logging level",
			EnvVars:     []string{"MAILDOWNLOADER_LOG_LEVEL"},
			Value:       def.LogLevel,
			Destination: &cfg.LogLevel,
		},
		&cli.StringFlag{
			Name:        "log-format",
			Usage:       "logging format (text/json)",
			EnvVars:     []string{"MAILDOWNLOADER_LOG_FORMAT"},
			Value:       def.LogFormat,
			Destination: &cfg.LogFormat,
		},
	}
}

// Resolve reads the configuration file and turns every account entry
// into a runnable harvest.AccountConfig, preserving file order.
func (cfg *Configuration) Resolve() error {
	var err error
	var raw []byte

	if cfg.ConfigPath == "-" {
		raw, err = ioutil.ReadAll(os.Stdin)
	} else {
		raw, err = ioutil.ReadFile(cfg.ConfigPath)
	}

	if err != nil {
		return err
	}

	if err := json.Unmarshal(raw, cfg); err != nil {
		return err
	}

	if len(cfg.Accounts) == 0 {
		return fmt.Errorf("at least one account is required")
	}

	cfg.ResolvedAccounts = make([]*harvest.AccountConfig, 0, len(cfg.Accounts))
	for i, acct := range cfg.Accounts {
		resolved, err := acct.Resolve()
		if err != nil {
			name := acct.Name
			if name == "" {
				name = fmt.Sprintf("#%d", i)
			}
			return fmt.Errorf("account %v: %w", name, err)
		}

		cfg.ResolvedAccounts = append(cfg.ResolvedAccounts, resolved)
	}

	return nil
}

// Resolve validates one account entry and binds it to the standard
// client factory.
func (acct *Account) Resolve() (*harvest.AccountConfig, error) {
	if acct.Name == "" {
		return nil, fmt.Errorf("\"name\" is required")
	}

	if acct.OutputDir == "" {
		return nil, fmt.Errorf("\"output_dir\" is required")
	}

	if len(acct.Senders) == 0 {
		return nil, fmt.Errorf("at least one sender is required")
	}

	conn, err := acct.Connection.Resolve()
	if err != nil {
		return nil, err
	}

	return &harvest.AccountConfig{
		Name:          acct.Name,
		Connection:    conn,
		Factory:       client.Factory{},
		OutputBaseDir: acct.OutputDir,
		Senders:       acct.Senders,
		MaxAttempts:   acct.MaxAttempts,
		RetryDelay:    acct.RetryDelay,
	}, nil
}
