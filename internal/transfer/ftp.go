package transfer

import (
	"context"
	"fmt"
	"os"

	"github.com/harrison/msutils/internal/page"
	"github.com/jlaffaye/ftp"
)

// FTPUploader sends pages over plain FTP.
type FTPUploader struct {
	target Target
	rename bool
	log    UploadLogger
}

// NewFTPUploader creates an FTPUploader. A nil log discards progress.
func NewFTPUploader(target Target, rename bool, log UploadLogger) *FTPUploader {
	if log == nil {
		log = nopLogger{}
	}
	return &FTPUploader{target: target, rename: rename, log: log}
}

// Upload logs in, changes to the target directory if one is set, and STORs
// each page in order.
func (u *FTPUploader) Upload(ctx context.Context, pages []page.Page) ([]Result, error) {
	addr := u.target.Addr()

	conn, err := ftp.Dial(addr, ftp.DialWithTimeout(DialTimeout), ftp.DialWithContext(ctx))
	if err != nil {
		return nil, &UploadError{Host: addr, Err: fmt.Errorf("connect: %w", err)}
	}
	defer conn.Quit()

	if err := conn.Login(u.target.User, u.target.Password); err != nil {
		return nil, &UploadError{Host: addr, Err: fmt.Errorf("login as %s: %w", u.target.User, err)}
	}
	if u.target.Path != "" {
		if err := conn.ChangeDir(u.target.Path); err != nil {
			return nil, &UploadError{Host: addr, Err: fmt.Errorf("change to %s: %w", u.target.Path, err)}
		}
	}

	return sendAll(ctx, addr, pages, u.rename, u.log, func(_ context.Context, local, remote string) error {
		f, err := os.Open(local)
		if err != nil {
			return err
		}
		defer f.Close()
		return conn.Stor(remote, f)
	})
}
