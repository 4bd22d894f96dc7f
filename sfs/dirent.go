package sfs

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/noxer/bytewriter"

	sfserrors "github.com/NikolasPasichnik/SimpleFileSystem/errors"
)

// rawDirent is the on-disk representation of one directory-table entry.
type rawDirent struct {
	EntryUsed  uint8
	Name       [L_MAX + 1]byte
	InodeIndex uint16
}

const rawDirentSize = 1 + (L_MAX + 1) + 2

// dirent is the in-memory, unpacked form of a rawDirent.
type dirent struct {
	Used       bool
	Name       string
	InodeIndex int
}

func direntFromRaw(raw rawDirent) dirent {
	if raw.EntryUsed == 0 {
		return dirent{}
	}
	nameBytes := raw.Name[:]
	if idx := bytes.IndexByte(nameBytes, 0); idx >= 0 {
		nameBytes = nameBytes[:idx]
	}
	return dirent{
		Used:       true,
		Name:       string(nameBytes),
		InodeIndex: int(raw.InodeIndex),
	}
}

func (d dirent) toRaw() (rawDirent, error) {
	if !d.Used {
		return rawDirent{}, nil
	}
	if len(d.Name) > L_MAX {
		return rawDirent{}, sfserrors.ErrNameTooLong.WithMessage(d.Name)
	}
	var raw rawDirent
	raw.EntryUsed = 1
	copy(raw.Name[:], d.Name)
	raw.InodeIndex = uint16(d.InodeIndex)
	return raw, nil
}

// dirTable is the in-memory mirror of the on-disk root directory table.
type dirTable struct {
	entries [D]dirent
}

func newDirTable() *dirTable {
	return &dirTable{}
}

func decodeDirTable(raw []byte) (*dirTable, error) {
	if len(raw) < D*rawDirentSize {
		return nil, sfserrors.ErrCorrupted.WithMessage("directory table region too small")
	}

	t := &dirTable{}
	reader := bytes.NewReader(raw)
	for i := 0; i < D; i++ {
		var r rawDirent
		if err := binary.Read(reader, binary.LittleEndian, &r); err != nil {
			return nil, sfserrors.ErrCorrupted.WrapError(err)
		}
		t.entries[i] = direntFromRaw(r)
	}
	return t, nil
}

func (t *dirTable) encode() ([]byte, error) {
	out := make([]byte, dirTableNumBlocks*B)
	writer := bytewriter.New(out)
	for i := 0; i < D; i++ {
		raw, err := t.entries[i].toRaw()
		if err != nil {
			return nil, err
		}
		binary.Write(writer, binary.LittleEndian, &raw)
	}
	return out, nil
}

// findByName returns the index of the used entry named name, or an error if
// none matches.
func (t *dirTable) findByName(name string) (int, error) {
	for i, e := range t.entries {
		if e.Used && e.Name == name {
			return i, nil
		}
	}
	return 0, sfserrors.ErrNotFound.WithMessage(name)
}

// allocateSlot returns the lowest-indexed free directory entry.
func (t *dirTable) allocateSlot() (int, error) {
	for i, e := range t.entries {
		if !e.Used {
			return i, nil
		}
	}
	return 0, sfserrors.ErrNoFreeSlot.WithMessage("directory table is full")
}

func (t *dirTable) nextUsedAfter(cursor int) (int, bool) {
	for i := cursor + 1; i < D; i++ {
		if t.entries[i].Used {
			return i, true
		}
	}
	return 0, false
}

func validateName(name string) error {
	if len(name) > L_MAX {
		return sfserrors.ErrNameTooLong.WithMessage(
			fmt.Sprintf("%q exceeds %d characters", name, L_MAX),
		)
	}
	return nil
}
