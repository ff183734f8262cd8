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
	"io"

	goImap "github.com/emersion/go-imap"
	log "github.com/sirupsen/logrus"

	"github.com/KaKaR0t05/MailDownloader/imap"
)

var errNoBody = errors.New("fetch returned no body")

func NewSession(cfg *Config) *Session {
	s := &Session{cfg: *cfg, state: StateDisconnected}

	if s.cfg.MaxAttempts == 0 {
		s.cfg.MaxAttempts = DefaultMaxAttempts
	}

	if s.cfg.RetryDelay == 0 {
		s.cfg.RetryDelay = DefaultRetryDelay
	}

	if s.cfg.Transient == nil {
		s.cfg.Transient = transientAlways
	}

	return s
}

func (s *Session) State() State {
	return s.state
}

func (s *Session) log() *log.Entry {
	return log.WithField("host", s.cfg.Connection.HostPort)
}

// Connect establishes and authenticates the connection, retrying up to
// MaxAttempts with RetryDelay between failures. On exhaustion the
// session holds no handle and enters StateFailed.
func (s *Session) Connect() error {
	err := withRetry("connect", s.cfg.MaxAttempts, s.cfg.RetryDelay, s.cfg.Transient, func() error {
		c, err := s.cfg.Factory.NewClient(&s.cfg.Connection)
		if err != nil {
			return err
		}

		s.client = c
		return nil
	})

	if err != nil {
		s.client = nil
		s.state = StateFailed
		return err
	}

	s.state = StateConnected
	s.log().Info("session_connected")
	return nil
}

// SearchUnseen selects the configured mailbox and returns the sequence
// numbers of unread messages in server order. The whole select+search
// is retried under the same policy as Connect; session state is left
// unchanged on exhaustion.
func (s *Session) SearchUnseen() ([]uint32, error) {
	if s.state != StateConnected {
		return nil, ErrNotConnected
	}

	var seqs []uint32
	err := withRetry("search_unseen", s.cfg.MaxAttempts, s.cfg.RetryDelay, s.cfg.Transient, func() error {
		if _, err := s.client.Select(s.cfg.Connection.Mailbox, false); err != nil {
			return err
		}

		criteria := goImap.NewSearchCriteria()
		criteria.WithoutFlags = []string{goImap.SeenFlag}

		res, err := s.client.Search(criteria)
		if err != nil {
			return err
		}

		seqs = res
		return nil
	})

	if err != nil {
		return nil, err
	}

	s.log().WithField("count", len(seqs)).Info("search_unseen_done")
	return seqs, nil
}

// FetchMessage retrieves the full raw message for one sequence number.
// BODY.PEEK[] is used so fetching never sets \Seen; messages that end
// up skipped must stay unread. One-shot, no retry.
func (s *Session) FetchMessage(seq uint32) ([]byte, error) {
	if s.state != StateConnected {
		return nil, ErrNotConnected
	}

	seqset := new(imap.SeqSet)
	seqset.AddNum(seq)

	section := &imap.BodySectionName{Peek: true}

	ch := make(chan *imap.Message, 1)
	done := make(chan error, 1)
	go func() {
		done <- s.client.Fetch(seqset, []imap.FetchItem{section.FetchItem()}, ch)
	}()

	var raw []byte
	var readErr error
	for msg := range ch {
		body := msg.GetBody(section)
		if body == nil {
			continue
		}
		raw, readErr = io.ReadAll(body)
	}

	if err := <-done; err != nil {
		return nil, err
	}

	if readErr != nil {
		return nil, readErr
	}

	if raw == nil {
		return nil, errNoBody
	}

	return raw, nil
}

// MarkSeen sets the \Seen flag on one message. One-shot, no retry.
func (s *Session) MarkSeen(seq uint32) error {
	if s.state != StateConnected {
		return ErrNotConnected
	}

	seqset := new(imap.SeqSet)
	seqset.AddNum(seq)

	item := goImap.FormatFlagsOp(goImap.AddFlags, true)
	return s.client.Store(seqset, item, []interface{}{goImap.SeenFlag}, nil)
}

// Close logs out and releases the connection. It is idempotent and
// never propagates errors; cleanup must not block the surrounding run.
func (s *Session) Close() {
	if s.client == nil {
		return
	}

	if err := s.client.Logout(); err != nil {
		s.log().WithError(err).Error("session_logout_failed")
	} else {
		s.log().Info("session_closed")
	}

	s.client = nil
	s.state = StateDisconnected
}
