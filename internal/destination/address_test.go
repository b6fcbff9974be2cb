package destination

import "testing"

func TestParseAddress(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want Address
		ok   bool
	}{
		{
			name: "full address",
			raw:  "smb://nas/backups/ingest/daily",
			want: Address{Host: "nas", Port: 445, Share: "backups", Path: "ingest/daily"},
			ok:   true,
		},
		{
			name: "share root",
			raw:  "smb://nas/backups",
			want: Address{Host: "nas", Port: 445, Share: "backups"},
			ok:   true,
		},
		{
			name: "explicit port",
			raw:  "smb://nas:1445/backups/ingest",
			want: Address{Host: "nas", Port: 1445, Share: "backups", Path: "ingest"},
			ok:   true,
		},
		{
			name: "uppercase scheme",
			raw:  "SMB://nas/backups",
			want: Address{Host: "nas", Port: 445, Share: "backups"},
			ok:   true,
		},
		{name: "missing share", raw: "smb://nas"},
		{name: "missing host", raw: "smb:///backups/ingest"},
		{name: "wrong scheme", raw: "nfs://nas/backups"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseAddress(tc.raw)
			if tc.ok {
				if err != nil {
					t.Fatalf("ParseAddress(%q): %v", tc.raw, err)
				}
				if got != tc.want {
					t.Fatalf("ParseAddress(%q) = %+v, want %+v", tc.raw, got, tc.want)
				}
				return
			}
			if err == nil {
				t.Fatalf("ParseAddress(%q): expected error, got %+v", tc.raw, got)
			}
		})
	}
}

func TestAddressString(t *testing.T) {
	addr := Address{Host: "nas", Port: 445, Share: "backups", Path: "ingest"}
	if got := addr.String(); got != "smb://nas/backups/ingest" {
		t.Fatalf("String = %q", got)
	}
	addr.Port = 1445
	if got := addr.String(); got != "smb://nas:1445/backups/ingest" {
		t.Fatalf("String = %q", got)
	}
}

func TestRemotePath(t *testing.T) {
	if got := remotePath("ingest/daily/a.bin"); got != `ingest\daily\a.bin` {
		t.Fatalf("remotePath = %q", got)
	}
}
