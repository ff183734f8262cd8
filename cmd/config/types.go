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
	"errors"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/KaKaR0t05/MailDownloader/harvest"
)

var (
	errInvalidScheme = errors.New("invalid uri scheme")
)

type IMAPConfig struct {
	URL           string `json:"url,omitempty"`
	AuthMethod    string `json:"auth_method,omitempty"`
	Username      string `json:"username,omitempty"`
	Password      string `json:"password,omitempty"`
	PasswordFile  string `json:"password_file,omitempty"`
	TLSSkipVerify bool   `json:"tls_skip_verify,omitempty"`
	Debug         bool   `json:"debug,omitempty"`
}

// Account is one mailbox account as it appears in the config file.
// Accounts are a list, not a map: they are processed in file order.
type Account struct {
	Name       string            `json:"name"`
	Connection IMAPConfig        `json:"connection"`
	OutputDir  string            `json:"output_dir"`
	Senders    map[string]string `json:"senders"`

	MaxAttempts uint          `json:"max_attempts,omitempty"`
	RetryDelay  time.Duration `json:"retry_delay,omitempty"`
}

type Configuration struct {
	ConfigPath string `json:"-"`

	Accounts  []*Account `json:"accounts,omitempty"`
	LogLevel  string     `json:"log_level,omitempty"`
	LogFormat string     `json:"log_format,omitempty"`

	ResolvedAccounts []*harvest.AccountConfig `json:"-"`
	Logger           *log.Logger              `json:"-"`
}
