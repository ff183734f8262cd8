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

package session

import (
	"errors"
	"time"

	"github.com/KaKaR0t05/MailDownloader/imap"
)

const (
	DefaultMaxAttempts uint = 3
	DefaultRetryDelay       = 5 * time.Second
)

var ErrNotConnected = errors.New("session not connected")

type State int

const (
	StateDisconnected State = 0
	StateConnected    State = 1
	StateFailed       State = 2
)

func (s State) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnected:
		return "connected"
	case StateFailed:
		return "failed"
	default:
		panic("invalid_state")
	}
}

type Config struct {
	Connection imap.ConnectionConfig
	Factory    imap.ClientFactory

	// MaxAttempts and RetryDelay bound the retry loop shared by
	// Connect and SearchUnseen. Zero values take the defaults.
	MaxAttempts uint
	RetryDelay  time.Duration

	// Transient reports whether an error is worth another attempt.
	// Nil means every error is retried, which is what most IMAP
	// servers' NO/BYE responses deserve anyway.
	Transient func(error) bool
}

// Session owns one authenticated connection to a mailbox. It is not
// safe for concurrent use; each account run gets its own.
type Session struct {
	cfg    Config
	client imap.Client
	state  State
}
