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
	"time"

	log "github.com/sirupsen/logrus"
)

func transientAlways(error) bool { return true }

// withRetry runs fn up to attempts times, sleeping delay between failed
// attempts. Errors rejected by the transient predicate abort the loop
// immediately. The last error is returned on exhaustion.
func withRetry(op string, attempts uint, delay time.Duration, transient func(error) bool, fn func() error) error {
	var err error
	for attempt := uint(1); attempt <= attempts; attempt++ {
		err = fn()
		if err == nil {
			return nil
		}

		log.WithError(err).WithFields(log.Fields{
			"op":           op,
			"attempt":      attempt,
			"max_attempts": attempts,
		}).Error("attempt_failed")

		if !transient(err) {
			log.WithError(err).WithField("op", op).Error("permanent_failure")
			return err
		}

		if attempt < attempts {
			log.WithFields(log.Fields{
				"op":    op,
				"delay": delay,
			}).Info("retrying")
			time.Sleep(delay)
		}
	}

	log.WithError(err).WithFields(log.Fields{
		"op":           op,
		"max_attempts": attempts,
	}).Error("retries_exhausted")
	return err
}
