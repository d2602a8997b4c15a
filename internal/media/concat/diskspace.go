package concat

import (
	"fmt"

	"golang.org/x/sys/unix"

	"murmur/internal/services"
)

// freeSpaceMargin is extra headroom beyond the summed input sizes, since the
// transcoded output can be larger than its inputs.
const freeSpaceMargin = 64 << 20

var availableBytes = func(dir string) (uint64, error) {
	var stat unix.Statfs_t
	if err := unix.Statfs(dir, &stat); err != nil {
		return 0, fmt.Errorf("statfs %q: %w", dir, err)
	}
	return uint64(stat.Bavail) * uint64(stat.Bsize), nil
}

func checkFreeSpace(dir string, totalInputBytes uint64) error {
	available, err := availableBytes(dir)
	if err != nil {
		// The filesystem may not support statfs; let ffmpeg surface any
		// actual write failure.
		return nil
	}
	needed := totalInputBytes + freeSpaceMargin
	if available < needed {
		return services.Wrap(
			services.ErrInvalidInput,
			"concat",
			"validate",
			fmt.Sprintf("insufficient disk space in %s: need %d bytes, have %d", dir, needed, available),
			nil,
		)
	}
	return nil
}
