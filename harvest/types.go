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

package harvest

import (
	"time"

	"github.com/KaKaR0t05/MailDownloader/imap"
)

// AccountConfig describes one mailbox account to harvest. Immutable
// once resolved from configuration.
type AccountConfig struct {
	Name       string
	Connection imap.ConnectionConfig
	Factory    imap.ClientFactory

	// OutputBaseDir is the directory under which a per-day
	// subdirectory (YYYY-MM-DD) is created for saved attachments.
	OutputBaseDir string

	// Senders maps lower-cased sender addresses to display labels.
	// Only messages from these addresses are processed.
	Senders map[string]string

	MaxAttempts uint
	RetryDelay  time.Duration
}

type Outcome int

const (
	OutcomeCompleted        Outcome = 0
	OutcomeConnectionFailed Outcome = 1
	OutcomeDirectoryFailed  Outcome = 2
	OutcomeSearchFailed     Outcome = 3
)

func (o Outcome) String() string {
	switch o {
	case OutcomeCompleted:
		return "completed"
	case OutcomeConnectionFailed:
		return "connection_failed"
	case OutcomeDirectoryFailed:
		return "directory_failed"
	case OutcomeSearchFailed:
		return "search_failed"
	default:
		panic("invalid_outcome")
	}
}

// Runner executes one end-to-end harvesting pass over one account.
type Runner struct {
	cfg     AccountConfig
	senders map[string]string
}
