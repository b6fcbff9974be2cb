package preflight_test

import (
	"path/filepath"
	"strings"
	"testing"

	"ferry/internal/preflight"
	"ferry/internal/testsupport"
)

func TestRunAllPassesOnHealthyConfig(t *testing.T) {
	cfg := testsupport.NewConfig(t)

	results := preflight.RunAll(cfg)
	if len(results) == 0 {
		t.Fatal("no checks ran")
	}
	for _, result := range results {
		if !result.Passed {
			t.Fatalf("check %q failed: %s", result.Name, result.Detail)
		}
	}
}

func TestCheckDirectoryAccessMissing(t *testing.T) {
	result := preflight.CheckDirectoryAccess("Source directory", filepath.Join(t.TempDir(), "absent"))
	if result.Passed {
		t.Fatal("missing directory passed")
	}
	if !strings.Contains(result.Detail, "does not exist") {
		t.Fatalf("detail = %q", result.Detail)
	}
}

func TestCheckTargetClassifiesSMB(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithTarget("smb://nas.local/backups/incoming"))

	result := preflight.CheckTarget(cfg)
	if !result.Passed {
		t.Fatalf("well-formed smb target failed: %s", result.Detail)
	}
	if !strings.Contains(result.Detail, "nas.local") {
		t.Fatalf("detail = %q", result.Detail)
	}
}

func TestCheckTargetRejectsBadSMBAddress(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithTarget("smb://hostonly"))

	result := preflight.CheckTarget(cfg)
	if result.Passed {
		t.Fatal("address without a share passed")
	}
}

func TestCheckFreeSpaceAgainstHugeFloor(t *testing.T) {
	result := preflight.CheckFreeSpace("Destination free space", t.TempDir(), 1<<62)
	if result.Passed {
		t.Fatal("impossible floor passed")
	}
}
