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
	"crypto/tls"

	"github.com/emersion/go-imap"
)

// Client is the subset of go-imap's client.Client this program uses.
type Client interface {
	Select(name string, readOnly bool) (*imap.MailboxStatus, error)

	Search(criteria *imap.SearchCriteria) ([]uint32, error)

	Fetch(seqset *imap.SeqSet, items []imap.FetchItem, ch chan *imap.Message) error

	Store(seqset *imap.SeqSet, item imap.StoreItem, value interface{}, ch chan *imap.Message) error

	Logout() error
}

type ConnectionConfig struct {
	HostPort  string
	Auth      Authenticator
	Mailbox   string
	TLS       bool
	TLSConfig *tls.Config
	Debug     bool
}

type ClientFactory interface {
	NewClient(cfg *ConnectionConfig) (Client, error)
}

type Message = imap.Message
type SeqSet = imap.SeqSet
type StoreItem = imap.StoreItem
type MailboxStatus = imap.MailboxStatus
type FetchItem = imap.FetchItem
type SearchCriteria = imap.SearchCriteria
type BodySectionName = imap.BodySectionName
type Literal = imap.Literal
