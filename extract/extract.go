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

// Package extract pulls attachment parts out of a parsed message and
// writes their decoded payloads to disk.
package extract

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/emersion/go-message"
	log "github.com/sirupsen/logrus"
)

// IsAttachment reports whether a part should be saved: its content type
// is not a multipart container and it carries disposition metadata.
// Both "attachment" and "inline" dispositions count.
func IsAttachment(h message.Header) bool {
	t, _, err := h.ContentType()
	if err == nil && strings.HasPrefix(t, "multipart/") {
		return false
	}

	return h.Get("Content-Disposition") != ""
}

// Filename returns the part's filename from the Content-Disposition
// parameters, falling back to the Content-Type "name" parameter.
// Empty if the part is unnamed.
func Filename(h message.Header) string {
	if _, params, err := h.ContentDisposition(); err == nil {
		if name := params["filename"]; name != "" {
			return name
		}
	}

	if _, params, err := h.ContentType(); err == nil {
		if name := params["name"]; name != "" {
			return name
		}
	}

	return ""
}

// Save writes one part's decoded payload to dir. Unnamed parts are
// skipped silently. The payload is buffered in full before writing;
// an existing file with the same name is overwritten.
func Save(part *message.Entity, sender string, dir string) error {
	name := Filename(part.Header)
	if name == "" {
		return nil
	}

	// go-message already decoded the transfer encoding on part.Body.
	data, err := io.ReadAll(part.Body)
	if err != nil {
		return err
	}

	path := filepath.Join(dir, filepath.Base(name))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return err
	}

	log.WithFields(log.Fields{
		"filename": filepath.Base(name),
		"sender":   sender,
		"size":     len(data),
	}).Info("attachment_saved")
	return nil
}

// All walks a multipart message in document order and saves every
// attachment part. Non-multipart messages yield zero attachments. A
// failed save is logged and counted; the walk continues.
func All(msg *message.Entity, sender string, dir string) (saved, failed int) {
	t, _, err := msg.Header.ContentType()
	if err != nil || !strings.HasPrefix(t, "multipart/") {
		return 0, 0
	}

	walk(msg, func(part *message.Entity) {
		if !IsAttachment(part.Header) {
			return
		}

		if err := Save(part, sender, dir); err != nil {
			log.WithError(err).WithFields(log.Fields{
				"filename": Filename(part.Header),
				"sender":   sender,
			}).Error("attachment_save_failed")
			failed++
			return
		}

		if Filename(part.Header) != "" {
			saved++
		}
	})

	return saved, failed
}

// walk calls fn on every leaf part, depth-first. Part bodies are only
// valid until the next part is read, so fn must consume them in place.
func walk(e *message.Entity, fn func(*message.Entity)) {
	mr := e.MultipartReader()
	if mr == nil {
		fn(e)
		return
	}

	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			log.WithError(err).Error("part_read_failed")
			break
		}

		walk(part, fn)
	}
}
