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

package imap

import (
	"github.com/emersion/go-imap/client"
	"github.com/emersion/go-sasl"
	"golang.org/x/oauth2"
)

// Authenticator authenticates an already-dialled connection.
type Authenticator interface {
	Authenticate(c *client.Client) error
}

type plainAuthenticator struct {
	username string
	password string
}

func NewNormalAuthenticator(username string, password string) *plainAuthenticator {
	return &plainAuthenticator{username: username, password: password}
}

func (a *plainAuthenticator) Authenticate(c *client.Client) error {
	return c.Login(a.username, a.password)
}

type saslAuthenticator struct {
	client sasl.Client
}

func NewSASLAuthenticator(client sasl.Client) *saslAuthenticator {
	return &saslAuthenticator{client: client}
}

func (a *saslAuthenticator) Authenticate(c *client.Client) error {
	return c.Authenticate(a.client)
}

type oauthBearerAuthenticator struct {
	username string
	source   oauth2.TokenSource
}

// NewOAuthBearerAuthenticator authenticates via SASL OAUTHBEARER, pulling
// a fresh access token from the given source on every attempt.
func NewOAuthBearerAuthenticator(username string, source oauth2.TokenSource) *oauthBearerAuthenticator {
	return &oauthBearerAuthenticator{username: username, source: source}
}

func (a *oauthBearerAuthenticator) Authenticate(c *client.Client) error {
	tok, err := a.source.Token()
	if err != nil {
		return err
	}

	return c.Authenticate(sasl.NewOAuthBearerClient(&sasl.OAuthBearerOptions{
		Username: a.username,
		Token:    tok.AccessToken,
	}))
}
