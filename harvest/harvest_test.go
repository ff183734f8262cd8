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
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	goImap "github.com/emersion/go-imap"
	"github.com/emersion/go-imap/backend/memory"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"

	"github.com/KaKaR0t05/MailDownloader/imap"
	"github.com/KaKaR0t05/MailDownloader/imap/client"
	mock_imap "github.com/KaKaR0t05/MailDownloader/imap/mocks"
	"github.com/KaKaR0t05/MailDownloader/internal"
)

const messageTwoAttachments = "From: Sender A <a@x.com>\r\n" +
	"To: username@localhost\r\n" +
	"Subject: reports\r\n" +
	"Content-Type: multipart/mixed; boundary=frontier\r\n" +
	"\r\n" +
	"--frontier\r\n" +
	"Content-Type: text/plain\r\n" +
	"\r\n" +
	"See attached.\r\n" +
	"--frontier\r\n" +
	"Content-Type: text/csv\r\n" +
	"Content-Disposition: attachment; filename=report.csv\r\n" +
	"\r\n" +
	"id,total\r\n" +
	"1,2\r\n" +
	"--frontier\r\n" +
	"Content-Type: application/octet-stream\r\n" +
	"Content-Disposition: attachment; filename=blob.bin\r\n" +
	"Content-Transfer-Encoding: base64\r\n" +
	"\r\n" +
	"AAEC\r\n" +
	"--frontier--\r\n"

const messageOtherSender = "From: Sender B <b@y.com>\r\n" +
	"To: username@localhost\r\n" +
	"Subject: not for us\r\n" +
	"Content-Type: multipart/mixed; boundary=frontier\r\n" +
	"\r\n" +
	"--frontier\r\n" +
	"Content-Type: text/plain\r\n" +
	"Content-Disposition: attachment; filename=ignored.txt\r\n" +
	"\r\n" +
	"should never land on disk\r\n" +
	"--frontier--\r\n"

const messageNoAttachments = "From: Sender A <a@x.com>\r\n" +
	"To: username@localhost\r\n" +
	"Subject: just text\r\n" +
	"Content-Type: text/plain\r\n" +
	"\r\n" +
	"nothing attached\r\n"

const messagePartialFailure = "From: Sender A <a@x.com>\r\n" +
	"To: username@localhost\r\n" +
	"Subject: half works\r\n" +
	"Content-Type: multipart/mixed; boundary=frontier\r\n" +
	"\r\n" +
	"--frontier\r\n" +
	"Content-Type: text/plain\r\n" +
	"Content-Disposition: attachment; filename=good.txt\r\n" +
	"\r\n" +
	"fine\r\n" +
	"--frontier\r\n" +
	"Content-Type: application/octet-stream\r\n" +
	"Content-Disposition: attachment; filename=\".\"\r\n" +
	"\r\n" +
	"cannot be written\r\n" +
	"--frontier--\r\n"

func seedMessage(t *testing.T, mbox *memory.Mailbox, raw string, flags []string) {
	err := mbox.CreateMessage(flags, time.Now(), bytes.NewBufferString(raw))
	assert.NoError(t, err)
	if err != nil {
		t.FailNow()
	}
}

func testAccount(addr string, factory imap.ClientFactory, base string) *AccountConfig {
	return &AccountConfig{
		Name: "test",
		Connection: imap.ConnectionConfig{
			HostPort: addr,
			Auth:     imap.NewNormalAuthenticator("username", "password"),
			Mailbox:  "INBOX",
		},
		Factory:       factory,
		OutputBaseDir: base,
		Senders:       map[string]string{"A@X.com": "Sender A"},
		RetryDelay:    time.Millisecond,
	}
}

// onlyOutputDir returns the single dated directory Run created under base.
func onlyOutputDir(t *testing.T, base string) string {
	entries, err := os.ReadDir(base)
	assert.NoError(t, err)
	if !assert.Len(t, entries, 1) {
		t.FailNow()
	}
	return filepath.Join(base, entries[0].Name())
}

func TestRun(t *testing.T) {
	_, addr, mbox := internal.BuildTestIMAPServer(t)

	seedMessage(t, mbox, messageTwoAttachments, nil)
	seedMessage(t, mbox, messageOtherSender, nil)
	seedMessage(t, mbox, messageNoAttachments, nil)

	base := t.TempDir()
	outcome := NewRunner(testAccount(addr, client.Factory{}, base)).Run()
	assert.Equal(t, OutcomeCompleted, outcome)

	dir := onlyOutputDir(t, base)

	csv, err := os.ReadFile(filepath.Join(dir, "report.csv"))
	assert.NoError(t, err)
	assert.Equal(t, "id,total\r\n1,2", string(csv))

	blob, err := os.ReadFile(filepath.Join(dir, "blob.bin"))
	assert.NoError(t, err)
	assert.Equal(t, []byte{0x00, 0x01, 0x02}, blob)

	files, err := os.ReadDir(dir)
	assert.NoError(t, err)
	assert.Len(t, files, 2)

	// Allow-listed messages are read, the other sender's is untouched.
	assert.Contains(t, mbox.Messages[0].Flags, goImap.SeenFlag)
	assert.NotContains(t, mbox.Messages[1].Flags, goImap.SeenFlag)
	assert.Contains(t, mbox.Messages[2].Flags, goImap.SeenFlag)
}

func TestRunIsIdempotent(t *testing.T) {
	_, addr, mbox := internal.BuildTestIMAPServer(t)

	seedMessage(t, mbox, messageTwoAttachments, nil)

	base := t.TempDir()
	cfg := testAccount(addr, client.Factory{}, base)

	assert.Equal(t, OutcomeCompleted, NewRunner(cfg).Run())

	// Second run sees no unread messages and changes nothing.
	assert.Equal(t, OutcomeCompleted, NewRunner(cfg).Run())

	files, err := os.ReadDir(onlyOutputDir(t, base))
	assert.NoError(t, err)
	assert.Len(t, files, 2)
}

func TestRunConnectionFailed(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	factory := mock_imap.NewMockClientFactory(ctrl)
	factory.EXPECT().
		NewClient(gomock.Any()).
		Return(nil, errors.New("connection refused")).
		Times(3)

	base := filepath.Join(t.TempDir(), "out")
	outcome := NewRunner(testAccount("127.0.0.1:1", factory, base)).Run()
	assert.Equal(t, OutcomeConnectionFailed, outcome)

	// The dated directory is only created after a successful connect.
	_, err := os.Stat(base)
	assert.True(t, os.IsNotExist(err))
}

func TestRunDirectoryFailed(t *testing.T) {
	_, addr, mbox := internal.BuildTestIMAPServer(t)

	seedMessage(t, mbox, messageTwoAttachments, nil)

	// A regular file where the base directory should be.
	base := filepath.Join(t.TempDir(), "out")
	err := os.WriteFile(base, []byte("in the way"), 0o644)
	assert.NoError(t, err)

	outcome := NewRunner(testAccount(addr, client.Factory{}, base)).Run()
	assert.Equal(t, OutcomeDirectoryFailed, outcome)

	// Nothing was processed.
	assert.NotContains(t, mbox.Messages[0].Flags, goImap.SeenFlag)
}

func TestRunSearchFailed(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	c := mock_imap.NewMockClient(ctrl)
	c.EXPECT().
		Select("INBOX", false).
		Return(nil, errors.New("server went away")).
		Times(3)
	c.EXPECT().Logout().Return(nil)

	factory := mock_imap.NewMockClientFactory(ctrl)
	factory.EXPECT().NewClient(gomock.Any()).Return(c, nil)

	outcome := NewRunner(testAccount("127.0.0.1:1", factory, t.TempDir())).Run()
	assert.Equal(t, OutcomeSearchFailed, outcome)
}

func TestRunPartialSaveStillMarksRead(t *testing.T) {
	_, addr, mbox := internal.BuildTestIMAPServer(t)

	seedMessage(t, mbox, messagePartialFailure, nil)

	base := t.TempDir()
	outcome := NewRunner(testAccount(addr, client.Factory{}, base)).Run()
	assert.Equal(t, OutcomeCompleted, outcome)

	data, err := os.ReadFile(filepath.Join(onlyOutputDir(t, base), "good.txt"))
	assert.NoError(t, err)
	assert.Equal(t, "fine", string(data))

	// A failed attachment does not keep the message unread.
	assert.Contains(t, mbox.Messages[0].Flags, goImap.SeenFlag)
}

func TestOutputDir(t *testing.T) {
	now := time.Date(2024, time.March, 7, 15, 4, 5, 0, time.UTC)
	assert.Equal(t, filepath.Join("/data", "2024-03-07"), OutputDir("/data", now))
}

func TestRunAll(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	_, addr, mbox := internal.BuildTestIMAPServer(t)
	seedMessage(t, mbox, messageTwoAttachments, nil)

	// First account fails to connect; the second must still run.
	factory := mock_imap.NewMockClientFactory(ctrl)
	factory.EXPECT().
		NewClient(gomock.Any()).
		Return(nil, errors.New("connection refused")).
		Times(3)

	broken := testAccount("127.0.0.1:1", factory, filepath.Join(t.TempDir(), "broken"))
	broken.Name = "broken"

	base := t.TempDir()
	working := testAccount(addr, client.Factory{}, base)
	working.Name = "working"

	RunAll([]*AccountConfig{broken, working})

	files, err := os.ReadDir(onlyOutputDir(t, base))
	assert.NoError(t, err)
	assert.Len(t, files, 2)
	assert.Contains(t, mbox.Messages[0].Flags, goImap.SeenFlag)
}
