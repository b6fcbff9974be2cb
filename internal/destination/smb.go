package destination

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net"
	"os"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/hirochachacha/go-smb2"

	"ferry/internal/config"
)

const smbDialTimeout = 10 * time.Second

// smbWriter streams files onto an SMB share. The connection is dialed
// lazily on first use and cached; any transport error drops the cached
// state so the next call redials.
type smbWriter struct {
	addr  Address
	creds config.SMB

	conn    net.Conn
	session *smb2.Session
	share   *smb2.Share
}

func newSMBWriter(addr Address, creds config.SMB) *smbWriter {
	if addr.Port == 0 {
		addr.Port = creds.Port
	}
	return &smbWriter{addr: addr, creds: creds}
}

func (w *smbWriter) Kind() string { return "smb" }

func (w *smbWriter) mount(ctx context.Context) (*smb2.Share, error) {
	if w.share != nil {
		return w.share, nil
	}

	port := w.addr.Port
	if port <= 0 {
		port = 445
	}
	conn, err := net.DialTimeout("tcp", net.JoinHostPort(w.addr.Host, strconv.Itoa(port)), smbDialTimeout)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", w.addr.Host, err)
	}

	dialer := &smb2.Dialer{
		Initiator: &smb2.NTLMInitiator{
			User:     w.creds.Username,
			Password: w.creds.Password,
			Domain:   w.creds.Domain,
		},
	}
	session, err := dialer.DialContext(ctx, conn)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("smb session: %w", err)
	}

	share, err := session.Mount(w.addr.Share)
	if err != nil {
		_ = session.Logoff()
		conn.Close()
		return nil, fmt.Errorf("mount share %s: %w", w.addr.Share, err)
	}

	w.conn = conn
	w.session = session
	w.share = share
	return share, nil
}

// reset tears down cached connection state after a transport error.
func (w *smbWriter) reset() {
	if w.share != nil {
		_ = w.share.Umount()
		w.share = nil
	}
	if w.session != nil {
		_ = w.session.Logoff()
		w.session = nil
	}
	if w.conn != nil {
		_ = w.conn.Close()
		w.conn = nil
	}
}

// EnsureDir creates the in-share path components one by one, tolerating
// directories that already exist.
func (w *smbWriter) EnsureDir(ctx context.Context, rel string) error {
	target := path.Join(w.addr.Path, rel)
	if target == "" || target == "." {
		return nil
	}

	share, err := w.mount(ctx)
	if err != nil {
		w.reset()
		return err
	}

	var prefix string
	for _, component := range strings.Split(target, "/") {
		prefix = path.Join(prefix, component)
		err := share.Mkdir(remotePath(prefix), 0o755)
		if err != nil && !errors.Is(err, fs.ErrExist) {
			w.reset()
			return fmt.Errorf("mkdir %s on %s: %w", prefix, w.addr.Share, err)
		}
	}
	return nil
}

// WriteFile opens the remote file for writing and streams the local file's
// bytes, hashing them as they go out.
func (w *smbWriter) WriteFile(ctx context.Context, src, name string) (WriteResult, error) {
	share, err := w.mount(ctx)
	if err != nil {
		w.reset()
		return WriteResult{}, err
	}

	in, err := os.Open(src)
	if err != nil {
		return WriteResult{}, err
	}
	defer in.Close()

	remote := remotePath(path.Join(w.addr.Path, name))
	out, err := share.Create(remote)
	if err != nil {
		w.reset()
		return WriteResult{}, fmt.Errorf("create %s on %s: %w", name, w.addr.Share, err)
	}

	hasher := sha256.New()
	written, err := io.Copy(io.MultiWriter(out, hasher), in)
	if err != nil {
		out.Close()
		w.reset()
		return WriteResult{}, fmt.Errorf("write %s to %s: %w", name, w.addr.Share, err)
	}
	if err := out.Close(); err != nil {
		w.reset()
		return WriteResult{}, fmt.Errorf("close %s on %s: %w", name, w.addr.Share, err)
	}

	return WriteResult{
		Path:   w.addr.String() + "/" + name,
		Size:   written,
		SHA256: hex.EncodeToString(hasher.Sum(nil)),
	}, nil
}

func (w *smbWriter) Remove(ctx context.Context, name string) error {
	share, err := w.mount(ctx)
	if err != nil {
		w.reset()
		return err
	}
	if err := share.Remove(remotePath(path.Join(w.addr.Path, name))); err != nil {
		w.reset()
		return err
	}
	return nil
}

func (w *smbWriter) Close() error {
	w.reset()
	return nil
}

// remotePath converts a slash-separated in-share path to SMB notation.
func remotePath(p string) string {
	return strings.ReplaceAll(p, "/", `\`)
}
