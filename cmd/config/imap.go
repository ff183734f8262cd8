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
	"crypto/tls"
	"fmt"
	"io/ioutil"
	"net"
	"net/url"
	"strings"

	"github.com/emersion/go-sasl"
	"golang.org/x/oauth2"

	"github.com/KaKaR0t05/MailDownloader/imap"
)

func extractUrl(u *url.URL) (string, string, bool, error) {
	var defaultPort string
	var useTLS bool
	switch strings.ToLower(u.Scheme) {
	case "imap":
		defaultPort = "143"
		useTLS = false
	case "imaps":
		defaultPort = "993"
		useTLS = true
	default:
		return "", "", false, errInvalidScheme
	}

	host := u.Hostname()
	port := u.Port()

	if port == "" {
		port = defaultPort
	}

	return net.JoinHostPort(host, port), strings.TrimPrefix(u.Path, "/"), useTLS, nil
}

func (cfg *IMAPConfig) validateUserPass() (string, string, error) {
	if cfg.Username == "" {
		return "", "", fmt.Errorf("\"username\" is required when using %v auth", cfg.AuthMethod)
	}

	var password string

	if cfg.Password != "" {
		password = cfg.Password
	} else if cfg.PasswordFile != "" {
		pass, err := ioutil.ReadFile(cfg.PasswordFile)
		if err != nil {
			return "", "", err
		}

		password = strings.TrimSpace(string(pass))
	} else {
		return "", "", fmt.Errorf("one of \"password\" or \"password_file\" is required")
	}

	return cfg.Username, password, nil
}

// Resolve turns the file-level connection settings into a runtime
// imap.ConnectionConfig: URL -> host:port/mailbox/TLS, auth method ->
// Authenticator.
func (cfg *IMAPConfig) Resolve() (imap.ConnectionConfig, error) {
	rawURL := cfg.URL
	if rawURL == "" {
		rawURL = DefaultAccountURL
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return imap.ConnectionConfig{}, err
	}

	hostPort, mailbox, wantTLS, err := extractUrl(u)
	if err != nil {
		return imap.ConnectionConfig{}, err
	}

	if mailbox == "" {
		mailbox = DefaultMailbox
	}

	method := strings.ToUpper(cfg.AuthMethod)
	if method == "" {
		method = "NORMAL"
	}

	var auth imap.Authenticator
	switch method {
	case "NORMAL":
		user, pass, err := cfg.validateUserPass()
		if err != nil {
			return imap.ConnectionConfig{}, err
		}

		auth = imap.NewNormalAuthenticator(user, pass)
	case sasl.Plain:
		user, pass, err := cfg.validateUserPass()
		if err != nil {
			return imap.ConnectionConfig{}, err
		}

		auth = imap.NewSASLAuthenticator(sasl.NewPlainClient("", user, pass))
	case sasl.OAuthBearer:
		// The "password" is an OAuth2 access token, e.g. one minted
		// via the oauthlogin subcommand.
		user, tok, err := cfg.validateUserPass()
		if err != nil {
			return imap.ConnectionConfig{}, err
		}

		auth = imap.NewOAuthBearerAuthenticator(user, oauth2.StaticTokenSource(&oauth2.Token{AccessToken: tok}))
	default:
		return imap.ConnectionConfig{}, fmt.Errorf("unsupported auth method: %v", cfg.AuthMethod)
	}

	conn := imap.ConnectionConfig{
		HostPort: hostPort,
		Auth:     auth,
		Mailbox:  mailbox,
		TLS:      wantTLS,
		Debug:    cfg.Debug,
	}

	if cfg.TLSSkipVerify {
		// #nosec G402
		conn.TLSConfig = &tls.Config{InsecureSkipVerify: true}
	}

	return conn, nil
}
