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
	"fmt"
	"strings"

	"github.com/urfave/cli/v2"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/endpoints"
)

type OAuth2Config struct {
	Provider     string
	ClientID     string
	ClientSecret string
	AuthURL      string
	TokenURL     string

	Config oauth2.Config
}

func (cfg *OAuth2Config) Parameters() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "provider",
			Usage:       "oauth2 provider (google, custom)",
			EnvVars:     []string{"MAILDOWNLOADER_OAUTH2_PROVIDER"},
			Value:       "google",
			Destination: &cfg.Provider,
		},
		&cli.StringFlag{
			Name:        "client-id",
			Usage:       "oauth2 client id",
			EnvVars:     []string{"MAILDOWNLOADER_OAUTH2_CLIENT_ID"},
			Required:    true,
			Destination: &cfg.ClientID,
		},
		&cli.StringFlag{
			Name:        "client-secret",
			Usage:       "oauth2 client secret",
			EnvVars:     []string{"MAILDOWNLOADER_OAUTH2_CLIENT_SECRET"},
			Destination: &cfg.ClientSecret,
		},
		&cli.StringFlag{
			Name:        "auth-url",
			Usage:       "authorization endpoint (custom provider only)",
			EnvVars:     []string{"MAILDOWNLOADER_OAUTH2_AUTH_URL"},
			Destination: &cfg.AuthURL,
		},
		&cli.StringFlag{
			Name:        "token-url",
			Usage:       "token endpoint (custom provider only)",
			EnvVars:     []string{"MAILDOWNLOADER_OAUTH2_TOKEN_URL"},
			Destination: &cfg.TokenURL,
		},
	}
}

func (cfg *OAuth2Config) Resolve() error {
	switch strings.ToLower(cfg.Provider) {
	case "", "google":
		cfg.Config = oauth2.Config{
			Endpoint: endpoints.Google,
			Scopes:   []string{"https://mail.google.com/"},
		}
	case "custom":
		if cfg.AuthURL == "" || cfg.TokenURL == "" {
			return fmt.Errorf("\"auth-url\" and \"token-url\" are required for the custom provider")
		}

		cfg.Config = oauth2.Config{
			Endpoint: oauth2.Endpoint{AuthURL: cfg.AuthURL, TokenURL: cfg.TokenURL},
		}
	default:
		return fmt.Errorf("unsupported oauth2 provider: %v", cfg.Provider)
	}

	cfg.Config.ClientID = cfg.ClientID
	cfg.Config.ClientSecret = cfg.ClientSecret
	return nil
}
