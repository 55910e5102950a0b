// Package transfer uploads page files to remote FTP and SFTP servers.
//
// Every uploader sends a batch in order and stops at the first failure,
// returning the results gathered so far along with an *UploadError.
package transfer

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/harrison/msutils/internal/page"
)

// Default ports and dial timeout.
const (
	DefaultFTPPort  = 21
	DefaultSFTPPort = 22
	DialTimeout     = 30 * time.Second
)

// Protocol names accepted in Target.Protocol.
const (
	ProtocolFTP  = "ftp"
	ProtocolSFTP = "sftp"
)

// Target is a remote destination.
type Target struct {
	Protocol string
	Host     string
	Port     int // 0 selects the protocol default
	User     string
	Password string
	Path     string // remote directory; empty means the login directory
}

// Addr returns host:port, filling in the protocol's default port.
func (t Target) Addr() string {
	port := t.Port
	if port == 0 {
		port = DefaultFTPPort
		if strings.EqualFold(t.Protocol, ProtocolSFTP) {
			port = DefaultSFTPPort
		}
	}
	return t.Host + ":" + strconv.Itoa(port)
}

// Result records one uploaded page.
type Result struct {
	Page       page.Page
	RemoteName string
}

// UploadLogger receives upload progress. logger.Logger implements it.
type UploadLogger interface {
	LogUpload(p page.Page, remoteName string)
	LogProgress(done, total int)
	LogWarn(message string)
}

type nopLogger struct{}

func (nopLogger) LogUpload(page.Page, string) {}
func (nopLogger) LogProgress(int, int)        {}
func (nopLogger) LogWarn(string)              {}

// Uploader sends pages to a remote destination.
type Uploader interface {
	Upload(ctx context.Context, pages []page.Page) ([]Result, error)
}

// UploadError reports a failed connection or file transfer. Name is empty
// when the failure happened before any file was sent.
type UploadError struct {
	Host string
	Name string
	Err  error
}

func (e *UploadError) Error() string {
	if e.Name == "" {
		return fmt.Sprintf("upload to %s: %v", e.Host, e.Err)
	}
	return fmt.Sprintf("upload %s to %s: %v", e.Name, e.Host, e.Err)
}

func (e *UploadError) Unwrap() error { return e.Err }

// RemoteName returns the name p is stored under remotely: its external name
// when rename is set, otherwise its local base name.
func RemoteName(p page.Page, rename bool) string {
	if rename {
		return p.ExternalName()
	}
	return filepath.Base(p.Path())
}

// New returns the uploader for target's protocol.
func New(target Target, rename bool, log UploadLogger) (Uploader, error) {
	switch strings.ToLower(target.Protocol) {
	case ProtocolFTP:
		return NewFTPUploader(target, rename, log), nil
	case ProtocolSFTP:
		return NewSFTPUploader(target, rename, log), nil
	default:
		return nil, fmt.Errorf("unsupported protocol %q", target.Protocol)
	}
}

// putFunc stores the local file under the remote name.
type putFunc func(ctx context.Context, local, remote string) error

// sendAll uploads pages in order through put. It stops at the first error
// or when ctx is done.
func sendAll(ctx context.Context, host string, pages []page.Page, rename bool, log UploadLogger, put putFunc) ([]Result, error) {
	results := make([]Result, 0, len(pages))
	for i, p := range pages {
		remote := RemoteName(p, rename)
		if err := ctx.Err(); err != nil {
			return results, &UploadError{Host: host, Name: remote, Err: err}
		}
		if err := put(ctx, p.Path(), remote); err != nil {
			return results, &UploadError{Host: host, Name: remote, Err: err}
		}
		results = append(results, Result{Page: p, RemoteName: remote})
		log.LogUpload(p, remote)
		log.LogProgress(i+1, len(pages))
	}
	return results, nil
}

// DryRunUploader logs what would be sent without connecting anywhere.
type DryRunUploader struct {
	Rename bool
	Logger UploadLogger
}

// Upload reports every page as sent.
func (u *DryRunUploader) Upload(ctx context.Context, pages []page.Page) ([]Result, error) {
	log := u.Logger
	if log == nil {
		log = nopLogger{}
	}
	return sendAll(ctx, "dry-run", pages, u.Rename, log, func(context.Context, string, string) error {
		return nil
	})
}
