// SPDX-License-Identifier: Unlicense OR MIT

package shadercache

import (
	"encoding/binary"
	"fmt"
	"log"
	"os"
	"time"

	glc "github.com/kestrelgl/velocitygl/internal/gl"
)

// Disk layout constants, per spec.md §6 byte-for-byte.
const (
	diskMagic   = 0x56454C53 // 'VELS' little-endian
	diskVersion = 1

	headerSize = 4 + 4 + 4 + 4 + 8 + 4 + 4 // magic,version,vendorHash,driverHash,timestamp,entryCount,reserved
	recordSize = 8 + 4 + 4 + 4 + 1 + 1 + 2 // sourceHash,format,size,dataOffset,isProgram,typesBitmask,padding
)

// Load opens path and, if its header matches the cache's current
// vendor/driver hash, populates the in-memory cache from its entries.
// A missing file is a silent cold start; any other failure (unreadable
// file, short read, bad magic, version, or vendor or driver hash) is
// logged and treated as a cold start, never raised. Per spec.md §4.D:
// "Reject if magic mismatches, version mismatches, or the recorded
// vendor-hash differs from the current device's vendor-hash."
func (c *Cache) Load(path string) {
	f, err := os.Open(path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Printf("shadercache: open %s: %v", path, err)
		}
		return
	}
	defer f.Close()

	var hdr [headerSize]byte
	if _, err := readFull(f, hdr[:]); err != nil {
		log.Printf("shadercache: %s: short header: %v", path, err)
		return
	}
	magic := binary.LittleEndian.Uint32(hdr[0:])
	version := binary.LittleEndian.Uint32(hdr[4:])
	vendorHash := binary.LittleEndian.Uint32(hdr[8:])
	driverHash := binary.LittleEndian.Uint32(hdr[12:])
	_ = binary.LittleEndian.Uint64(hdr[16:]) // timestamp, informational only
	entryCount := binary.LittleEndian.Uint32(hdr[24:])

	if magic != diskMagic {
		log.Printf("shadercache: %s: bad magic 0x%x, discarding", path, magic)
		return
	}
	if version != diskVersion {
		log.Printf("shadercache: %s: version %d unsupported, discarding", path, version)
		return
	}
	if vendorHash != c.vendorHash || driverHash != c.driverHash {
		log.Printf("shadercache: %s: vendor/driver hash mismatch (file %x/%x, device %x/%x), discarding", path, vendorHash, driverHash, c.vendorHash, c.driverHash)
		return
	}

	type rec struct {
		sourceHash uint64
		format     uint32
		size       uint32
		dataOffset uint32
	}
	recs := make([]rec, entryCount)
	for i := range recs {
		var rb [recordSize]byte
		if _, err := readFull(f, rb[:]); err != nil {
			log.Printf("shadercache: %s: short record %d: %v", path, i, err)
			return
		}
		recs[i] = rec{
			sourceHash: binary.LittleEndian.Uint64(rb[0:]),
			format:     binary.LittleEndian.Uint32(rb[8:]),
			size:       binary.LittleEndian.Uint32(rb[12:]),
			dataOffset: binary.LittleEndian.Uint32(rb[16:]),
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	now := time.Now().UnixNano()
	for _, r := range recs {
		blob := make([]byte, r.size)
		if _, err := f.ReadAt(blob, int64(r.dataOffset)); err != nil {
			log.Printf("shadercache: %s: read blob for key %x: %v", path, r.sourceHash, err)
			continue
		}
		c.entries[r.sourceHash] = &entry{
			key:      r.sourceHash,
			format:   glc.Enum(r.format),
			binary:   blob,
			lastUsed: now,
		}
		c.totalBytes += int64(r.size)
	}
}

// Save writes the cache out in header+records+blobs order, per
// spec.md §4.D and §6. Writes are best-effort: a failure is logged,
// never raised, so shutdown never blocks on a broken cache directory.
func (c *Cache) Save(path string) {
	c.mu.RLock()
	entries := make([]*entry, 0, len(c.entries))
	for _, e := range c.entries {
		entries = append(entries, e)
	}
	c.mu.RUnlock()

	f, err := os.Create(path)
	if err != nil {
		log.Printf("shadercache: create %s: %v", path, err)
		return
	}
	defer f.Close()

	var hdr [headerSize]byte
	binary.LittleEndian.PutUint32(hdr[0:], diskMagic)
	binary.LittleEndian.PutUint32(hdr[4:], diskVersion)
	binary.LittleEndian.PutUint32(hdr[8:], c.vendorHash)
	binary.LittleEndian.PutUint32(hdr[12:], c.driverHash)
	binary.LittleEndian.PutUint64(hdr[16:], uint64(time.Now().Unix()))
	binary.LittleEndian.PutUint32(hdr[24:], uint32(len(entries)))
	// hdr[28:32] reserved, left zero.
	if _, err := f.Write(hdr[:]); err != nil {
		log.Printf("shadercache: write header %s: %v", path, err)
		return
	}

	dataOffset := uint32(headerSize + len(entries)*recordSize)
	offsets := make([]uint32, len(entries))
	for i, e := range entries {
		offsets[i] = dataOffset
		dataOffset += uint32(len(e.binary))
	}

	for i, e := range entries {
		var rb [recordSize]byte
		binary.LittleEndian.PutUint64(rb[0:], e.key)
		binary.LittleEndian.PutUint32(rb[8:], uint32(e.format))
		binary.LittleEndian.PutUint32(rb[12:], uint32(len(e.binary)))
		binary.LittleEndian.PutUint32(rb[16:], offsets[i])
		rb[20] = 1 // is_program
		// rb[21] shader_types_bitmask, rb[22:24] padding left zero.
		if _, err := f.Write(rb[:]); err != nil {
			log.Printf("shadercache: write record %s: %v", path, err)
			return
		}
	}

	for _, e := range entries {
		if _, err := f.Write(e.binary); err != nil {
			log.Printf("shadercache: write blob %s: %v", path, err)
			return
		}
	}
}

func readFull(f *os.File, buf []byte) (int, error) {
	n, err := f.Read(buf)
	if err != nil {
		return n, err
	}
	if n != len(buf) {
		return n, fmt.Errorf("short read: got %d of %d bytes", n, len(buf))
	}
	return n, nil
}
