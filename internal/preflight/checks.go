package preflight

import (
	"context"
	"fmt"
	"os"

	"golang.org/x/sys/unix"

	"heiconv/internal/codec"
)

// CheckDirectoryAccess verifies that the directory exists and is
// readable/writable.
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

// CheckFreeSpace verifies the volume holding path has at least minMiB free.
// A full output disk surfaces here instead of as a string of failed tasks.
func CheckFreeSpace(name, path string, minMiB int) Result {
	var stat unix.Statfs_t
	if err := unix.Statfs(path, &stat); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: statfs: %v)", path, err)}
	}
	freeMiB := stat.Bavail * uint64(stat.Bsize) / (1 << 20)
	if freeMiB < uint64(minMiB) {
		return Result{
			Name:   name,
			Detail: fmt.Sprintf("%s (error: %d MiB free, need %d MiB)", path, freeMiB, minMiB),
		}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (%d MiB free)", path, freeMiB)}
}

// CheckCodec verifies the codec can actually produce the target format.
func CheckCodec(ctx context.Context, gateway codec.Gateway, format codec.Format) Result {
	const name = "Codec capability"
	if err := gateway.Probe(ctx, format); err != nil {
		return Result{Name: name, Detail: err.Error()}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s encoding available", format)}
}
