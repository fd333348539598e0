package gitobj

import "fmt"

// FileMode is a git tree-entry mode. The bit values are git's own and are
// persisted as-is, so they must never change.
type FileMode uint16

const (
	ModeRegular   FileMode = 0o100000
	ModeSymlink   FileMode = 0o120000
	ModeDirectory FileMode = 0o040000
	ModeGitlink   FileMode = 0o160000

	// Permission bits combined with ModeRegular.
	ModeRW  FileMode = 0o644
	ModeRWX FileMode = 0o755

	modeTypeMask FileMode = 0o170000
)

// Typ masks off permission bits, leaving only the object-type bits.
func (m FileMode) Typ() FileMode {
	return m & modeTypeMask
}

// String renders the mode the way git tree entries spell it, without a
// leading zero for directories.
func (m FileMode) String() string {
	return fmt.Sprintf("%o", uint16(m))
}
