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
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"testing"
	"time"

	"github.com/emersion/go-imap/client"
	"github.com/emersion/go-imap/server"
	"github.com/emersion/go-sasl"
	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"golang.org/x/oauth2"

	"github.com/KaKaR0t05/MailDownloader/internal"
)

func TestNormal(t *testing.T) {
	_, address, _ := internal.BuildTestIMAPServer(t)

	c, err := client.Dial(address)
	assert.NoError(t, err)
	if err != nil {
		t.FailNow()
	}
	defer func() { _ = c.Logout() }()

	auth := NewNormalAuthenticator("username", "password")
	err = auth.Authenticate(c)
	assert.NoError(t, err)
}

func TestNormalBadPassword(t *testing.T) {
	_, address, _ := internal.BuildTestIMAPServer(t)

	c, err := client.Dial(address)
	assert.NoError(t, err)
	if err != nil {
		t.FailNow()
	}
	defer func() { _ = c.Logout() }()

	auth := NewNormalAuthenticator("username", "hunter2")
	err = auth.Authenticate(c)
	assert.Error(t, err)
}

func TestOAuthBearer(t *testing.T) {
	srv, address, _ := internal.BuildTestIMAPServer(t)

	privKey, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	assert.NoError(t, err)
	if err != nil {
		t.FailNow()
	}

	now := time.Now()
	tok := jwt.NewWithClaims(jwt.SigningMethodES256, jwt.RegisteredClaims{
		Issuer:    "maildownloader test",
		Subject:   "username",
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
	})

	signedTok, err := tok.SignedString(privKey)
	assert.NoError(t, err)
	if err != nil {
		t.FailNow()
	}

	srv.EnableAuth(sasl.OAuthBearer, func(conn server.Conn) sasl.Server {
		return sasl.NewOAuthBearerServer(func(opts sasl.OAuthBearerOptions) *sasl.OAuthBearerError {
			claims := jwt.RegisteredClaims{}
			_, err := jwt.ParseWithClaims(opts.Token, &claims, func(token *jwt.Token) (interface{}, error) {
				return &privKey.PublicKey, nil
			}, jwt.WithValidMethods([]string{jwt.SigningMethodES256.Name}))

			if err != nil || claims.Subject != opts.Username {
				return &sasl.OAuthBearerError{Status: "invalid_token", Schemes: "bearer"}
			}

			return nil
		})
	})

	c, err := client.Dial(address)
	assert.NoError(t, err)
	if err != nil {
		t.FailNow()
	}
	defer func() { _ = c.Logout() }()

	auth := NewOAuthBearerAuthenticator("username", oauth2.StaticTokenSource(&oauth2.Token{AccessToken: signedTok}))
	err = auth.Authenticate(c)
	assert.NoError(t, err)
}
