package packman

import "errors"

var (
	// ErrDirNotFound reports that the assets path does not exist or is not a
	// directory.
	ErrDirNotFound = errors.New("packman: assets directory not found")

	// ErrNoPacks reports that discovery found zero eligible pack files. An
	// empty manifest is almost always a misconfigured directory or extension,
	// so it is never written.
	ErrNoPacks = errors.New("packman: no eligible pack files")

	// ErrUnreadable reports an open or read failure on a specific pack,
	// including a file removed between discovery and hashing. It aborts the
	// whole build: a partial manifest is worse than a failed one.
	ErrUnreadable = errors.New("packman: unreadable pack file")

	// ErrMismatch reports that a pack's bytes no longer match the digest
	// recorded for it.
	ErrMismatch = errors.New("packman: pack digest mismatch")

	// ErrNameCollision reports two eligible file names equal under case
	// folding, which would pick different winners on case-insensitive
	// filesystems.
	ErrNameCollision = errors.New("packman: pack file names collide under case folding")

	// ErrNotFound reports a missing object or ref in the pack archive.
	ErrNotFound = errors.New("packman: not found")
)
