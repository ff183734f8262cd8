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
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/emersion/go-message"
	"github.com/emersion/go-message/mail"
	log "github.com/sirupsen/logrus"

	"github.com/KaKaR0t05/MailDownloader/extract"
	"github.com/KaKaR0t05/MailDownloader/session"
)

func NewRunner(cfg *AccountConfig) *Runner {
	senders := make(map[string]string, len(cfg.Senders))
	for addr, label := range cfg.Senders {
		senders[strings.ToLower(addr)] = label
	}

	return &Runner{cfg: *cfg, senders: senders}
}

func (r *Runner) log() *log.Entry {
	return log.WithField("account", r.cfg.Name)
}

// OutputDir returns the per-day attachment directory for the given
// moment. The date is resolved once at run start; a run that crosses
// midnight keeps using its start-of-run directory.
func OutputDir(base string, now time.Time) string {
	return filepath.Join(base, now.Format("2006-01-02"))
}

func (r *Runner) prepareOutputDir(now time.Time) (string, error) {
	dir := OutputDir(r.cfg.OutputBaseDir, now)

	// MkdirAll is idempotent; a pre-existing directory is reused.
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}

	return dir, nil
}

// Run harvests one account end-to-end: connect, prepare the output
// directory, search for unread messages, process each in server order.
// The session is closed on every exit path.
func (r *Runner) Run() Outcome {
	sess := session.NewSession(&session.Config{
		Connection:  r.cfg.Connection,
		Factory:     r.cfg.Factory,
		MaxAttempts: r.cfg.MaxAttempts,
		RetryDelay:  r.cfg.RetryDelay,
	})

	if err := sess.Connect(); err != nil {
		r.log().WithError(err).Error("account_connect_failed")
		return OutcomeConnectionFailed
	}
	defer sess.Close()

	dir, err := r.prepareOutputDir(time.Now())
	if err != nil {
		r.log().WithError(err).WithField("base_dir", r.cfg.OutputBaseDir).Error("output_dir_failed")
		return OutcomeDirectoryFailed
	}

	seqs, err := sess.SearchUnseen()
	if err != nil {
		r.log().WithError(err).Error("account_search_failed")
		return OutcomeSearchFailed
	}

	for _, seq := range seqs {
		r.processMessage(sess, seq, dir)
	}

	return OutcomeCompleted
}

// processMessage handles a single message in total isolation from its
// siblings: every failure here is logged and contained.
func (r *Runner) processMessage(sess *session.Session, seq uint32, dir string) {
	e := r.log().WithField("seq", seq)

	raw, err := sess.FetchMessage(seq)
	if err != nil {
		e.WithError(err).Error("message_fetch_failed")
		return
	}

	ent, err := message.Read(bytes.NewReader(raw))
	if err != nil && !message.IsUnknownCharset(err) {
		e.WithError(err).Error("message_parse_failed")
		return
	}

	sender := senderAddress(ent.Header)
	label, ok := r.senders[sender]
	if !ok {
		e.WithField("sender", sender).Info("sender_not_allowed")
		return
	}

	saved, failed := extract.All(ent, sender, dir)
	e.WithFields(log.Fields{
		"sender": sender,
		"label":  label,
		"saved":  saved,
		"failed": failed,
	}).Info("message_processed")

	// Marked read even when some saves failed; the retry budget is
	// reserved for connection-level errors.
	if err := sess.MarkSeen(seq); err != nil {
		e.WithError(err).Error("mark_seen_failed")
	}
}

// senderAddress extracts the first From address, lower-cased. Falls
// back to the raw header value when the address list won't parse.
func senderAddress(h message.Header) string {
	mh := mail.Header{Header: h}
	if list, err := mh.AddressList("From"); err == nil && len(list) > 0 {
		return strings.ToLower(list[0].Address)
	}

	return strings.ToLower(strings.TrimSpace(h.Get("From")))
}
