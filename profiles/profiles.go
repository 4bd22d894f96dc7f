// Package profiles provides named disk geometry presets for the sfs
// package, loaded from an embedded CSV table.
package profiles

import (
	_ "embed"
	"fmt"
	"strings"

	"github.com/gocarina/gocsv"
)

// Profile names one consistent (B, M, N, D, K) tuple. The fixed layout
// rules (inode and directory tables must fit their reserved block ranges,
// data region sized to fill the rest) apply to every profile, not just the
// default.
type Profile struct {
	Slug        string `csv:"slug"`
	Description string `csv:"description"`
	BlockSize   uint   `csv:"block_size"`
	TotalBlocks uint   `csv:"total_blocks"`
	MaxInodes   uint   `csv:"max_inodes"`
	MaxDirents  uint   `csv:"max_dirents"`
	MaxOpenFds  uint   `csv:"max_open_fds"`
}

// TotalSizeBytes gives the size, in bytes, a device formatted with this
// profile occupies.
func (p Profile) TotalSizeBytes() int64 {
	return int64(p.BlockSize) * int64(p.TotalBlocks)
}

//go:embed profiles.csv
var profilesRawCSV string

var profiles map[string]Profile

func init() {
	profiles = make(map[string]Profile)
	reader := strings.NewReader(profilesRawCSV)
	err := gocsv.UnmarshalToCallback(reader, func(row Profile) error {
		if _, exists := profiles[row.Slug]; exists {
			return fmt.Errorf("duplicate profile slug %q", row.Slug)
		}
		profiles[row.Slug] = row
		return nil
	})
	if err != nil {
		panic(err)
	}
}

// Get looks up a named profile. "default" always resolves to the fixed
// reference geometry (1024-byte blocks, 1024 blocks, 114 inodes, 96
// directory entries, 10 open files).
func Get(slug string) (Profile, error) {
	p, ok := profiles[slug]
	if !ok {
		return Profile{}, fmt.Errorf("no predefined profile named %q", slug)
	}
	return p, nil
}

// Names returns every known profile slug.
func Names() []string {
	names := make([]string, 0, len(profiles))
	for name := range profiles {
		names = append(names, name)
	}
	return names
}
