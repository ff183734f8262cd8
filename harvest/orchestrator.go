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
	log "github.com/sirupsen/logrus"
)

// RunAll runs each account once, in configuration order. Accounts are
// fully independent: each gets a fresh session and directory
// resolution, and one account's failure never prevents the next from
// running.
func RunAll(accounts []*AccountConfig) {
	for _, acct := range accounts {
		outcome := NewRunner(acct).Run()
		log.WithFields(log.Fields{
			"account": acct.Name,
			"outcome": outcome,
		}).Info("account_run_finished")
	}
}
