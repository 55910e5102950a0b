package transfer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net"
	"os"
	"path"
	"path/filepath"

	"github.com/harrison/msutils/internal/page"
	"github.com/pkg/sftp"
	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/knownhosts"
)

// privateKeyFiles are tried, in order, when a target has no password.
var privateKeyFiles = []string{"id_ed25519", "id_rsa"}

// SFTPUploader sends pages over SFTP.
type SFTPUploader struct {
	target Target
	rename bool
	log    UploadLogger
	sshDir string
}

// NewSFTPUploader creates an SFTPUploader. Keys and known_hosts are read
// from ~/.ssh. A nil log discards progress.
func NewSFTPUploader(target Target, rename bool, log UploadLogger) *SFTPUploader {
	if log == nil {
		log = nopLogger{}
	}
	sshDir := ""
	if home, err := os.UserHomeDir(); err == nil {
		sshDir = filepath.Join(home, ".ssh")
	}
	return &SFTPUploader{target: target, rename: rename, log: log, sshDir: sshDir}
}

// Upload opens an SSH session, starts the SFTP subsystem and writes each
// page under the target path.
func (u *SFTPUploader) Upload(ctx context.Context, pages []page.Page) ([]Result, error) {
	addr := u.target.Addr()

	config, err := u.clientConfig()
	if err != nil {
		return nil, &UploadError{Host: addr, Err: err}
	}

	dialer := net.Dialer{Timeout: DialTimeout}
	netConn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, &UploadError{Host: addr, Err: fmt.Errorf("connect: %w", err)}
	}
	sshConn, chans, reqs, err := ssh.NewClientConn(netConn, addr, config)
	if err != nil {
		netConn.Close()
		return nil, &UploadError{Host: addr, Err: fmt.Errorf("ssh handshake: %w", err)}
	}
	sshClient := ssh.NewClient(sshConn, chans, reqs)
	defer sshClient.Close()

	client, err := sftp.NewClient(sshClient)
	if err != nil {
		return nil, &UploadError{Host: addr, Err: fmt.Errorf("start sftp: %w", err)}
	}
	defer client.Close()

	return u.send(ctx, addr, client, pages)
}

func (u *SFTPUploader) send(ctx context.Context, addr string, client *sftp.Client, pages []page.Page) ([]Result, error) {
	return sendAll(ctx, addr, pages, u.rename, u.log, func(_ context.Context, local, remote string) error {
		src, err := os.Open(local)
		if err != nil {
			return err
		}
		defer src.Close()

		dst, err := client.Create(path.Join(u.target.Path, remote))
		if err != nil {
			return err
		}
		if _, err := io.Copy(dst, src); err != nil {
			dst.Close()
			return err
		}
		return dst.Close()
	})
}

func (u *SFTPUploader) clientConfig() (*ssh.ClientConfig, error) {
	auth, err := u.authMethods()
	if err != nil {
		return nil, err
	}
	hostKeys, err := u.hostKeyCallback()
	if err != nil {
		return nil, err
	}
	return &ssh.ClientConfig{
		User:            u.target.User,
		Auth:            auth,
		HostKeyCallback: hostKeys,
		Timeout:         DialTimeout,
	}, nil
}

// authMethods uses the password when set, otherwise every readable key in
// privateKeyFiles.
func (u *SFTPUploader) authMethods() ([]ssh.AuthMethod, error) {
	if u.target.Password != "" {
		return []ssh.AuthMethod{ssh.Password(u.target.Password)}, nil
	}

	var signers []ssh.Signer
	for _, name := range privateKeyFiles {
		keyPath := filepath.Join(u.sshDir, name)
		data, err := os.ReadFile(keyPath)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("read private key: %w", err)
		}
		signer, err := ssh.ParsePrivateKey(data)
		if err != nil {
			var missing *ssh.PassphraseMissingError
			if errors.As(err, &missing) {
				u.log.LogWarn(fmt.Sprintf("Skipping passphrase-protected key %s", keyPath))
				continue
			}
			return nil, fmt.Errorf("parse private key %s: %w", keyPath, err)
		}
		signers = append(signers, signer)
	}
	if len(signers) == 0 {
		return nil, fmt.Errorf("no password set and no usable private key in %s", u.sshDir)
	}
	return []ssh.AuthMethod{ssh.PublicKeys(signers...)}, nil
}

// hostKeyCallback checks host keys against known_hosts when the file exists.
func (u *SFTPUploader) hostKeyCallback() (ssh.HostKeyCallback, error) {
	knownHosts := filepath.Join(u.sshDir, "known_hosts")
	if _, err := os.Stat(knownHosts); errors.Is(err, fs.ErrNotExist) {
		u.log.LogWarn(fmt.Sprintf("No %s; host key for %s not verified", knownHosts, u.target.Host))
		return ssh.InsecureIgnoreHostKey(), nil
	}
	callback, err := knownhosts.New(knownHosts)
	if err != nil {
		return nil, fmt.Errorf("load known_hosts: %w", err)
	}
	return callback, nil
}
