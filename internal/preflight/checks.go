package preflight

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"

	"ferry/internal/config"
	"ferry/internal/destination"
)

// minFreeBytes is the floor below which the free-space check fails. Full
// destinations fail every copy with confusing I/O errors; 100 MiB gives the
// status command a clearer story.
const minFreeBytes = 100 << 20

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckTarget classifies the destination address. A local target gets a
// directory access check; an smb:// target is checked for a well-formed
// address only, since the share may legitimately be offline at start.
func CheckTarget(cfg *config.Config) Result {
	const name = "Destination target"

	if cfg.TargetIsRemote() {
		addr, err := destination.ParseAddress(cfg.Paths.Target)
		if err != nil {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: %v)", cfg.Paths.Target, err)}
		}
		return Result{Name: name, Passed: true, Detail: fmt.Sprintf("smb share %s on %s", addr.Share, addr.Host)}
	}

	return CheckDirectoryAccess(name, cfg.Paths.Target)
}

// CheckFreeSpace verifies that the filesystem containing path has at least
// floor bytes available to an unprivileged writer.
func CheckFreeSpace(name, path string, floor uint64) Result {
	var stat unix.Statfs_t
	if err := unix.Statfs(path, &stat); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: statfs: %v)", path, err)}
	}

	free := stat.Bavail * uint64(stat.Bsize)
	if free < floor {
		return Result{Name: name, Detail: fmt.Sprintf("%s (%.1f MiB free, below %.0f MiB floor)", path, float64(free)/(1<<20), float64(floor)/(1<<20))}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (%.1f GiB free)", path, float64(free)/(1<<30))}
}
