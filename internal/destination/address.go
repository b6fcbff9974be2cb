package destination

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// Address identifies a location on an SMB share.
type Address struct {
	Host  string
	Port  int
	Share string
	// Path is the directory inside the share, slash-separated and possibly
	// empty (the share root).
	Path string
}

// ParseAddress parses smb://host[:port]/share[/path]. The share component is
// mandatory; the in-share path may be empty.
func ParseAddress(raw string) (Address, error) {
	parsed, err := url.Parse(raw)
	if err != nil {
		return Address{}, fmt.Errorf("parse smb address: %w", err)
	}
	if !strings.EqualFold(parsed.Scheme, "smb") {
		return Address{}, fmt.Errorf("expected smb scheme, got %q", parsed.Scheme)
	}

	host := parsed.Hostname()
	if host == "" {
		return Address{}, errors.New("smb address must include a host")
	}

	port := 445
	if raw := parsed.Port(); raw != "" {
		port, err = strconv.Atoi(raw)
		if err != nil || port <= 0 {
			return Address{}, fmt.Errorf("invalid smb port %q", raw)
		}
	}

	trimmed := strings.Trim(parsed.Path, "/")
	if trimmed == "" {
		return Address{}, fmt.Errorf("smb address %q is missing a share (want smb://host/share/path)", raw)
	}
	share, inShare, _ := strings.Cut(trimmed, "/")

	return Address{Host: host, Port: port, Share: share, Path: inShare}, nil
}

// String renders the address back in smb:// notation.
func (a Address) String() string {
	hostPort := a.Host
	if a.Port != 0 && a.Port != 445 {
		hostPort = fmt.Sprintf("%s:%d", a.Host, a.Port)
	}
	if a.Path == "" {
		return fmt.Sprintf("smb://%s/%s", hostPort, a.Share)
	}
	return fmt.Sprintf("smb://%s/%s/%s", hostPort, a.Share, a.Path)
}
