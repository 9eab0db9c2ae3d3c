package store

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"os"

	"github.com/DataDog/zstd"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/mctrans/internal/ids"
	"github.com/san-kum/mctrans/internal/physics"
	"github.com/san-kum/mctrans/internal/quantity"
)

// A secondary snapshot is a zstd frame holding a little-endian header
// followed by fixed-size records.
var bankMagic = [4]byte{'M', 'C', 'S', 'B'}

const (
	bankVersion      = 1
	compressionLevel = 3
)

type bankHeader struct {
	Magic   [4]byte
	Version uint32
	Count   uint64
}

type bankRecord struct {
	Particle int32 // -1 when unset
	Energy   float64
	X, Y, Z  float64
}

func encodeSecondaries(secs []physics.Secondary) ([]byte, error) {
	var raw bytes.Buffer
	hdr := bankHeader{Magic: bankMagic, Version: bankVersion, Count: uint64(len(secs))}
	if err := binary.Write(&raw, binary.LittleEndian, hdr); err != nil {
		return nil, err
	}

	records := make([]bankRecord, len(secs))
	for i, s := range secs {
		records[i] = bankRecord{
			Particle: -1,
			Energy:   s.Energy.Value(),
			X:        s.Direction.X,
			Y:        s.Direction.Y,
			Z:        s.Direction.Z,
		}
		if s.Particle.Valid() {
			records[i].Particle = int32(s.Particle.Get())
		}
	}
	if err := binary.Write(&raw, binary.LittleEndian, records); err != nil {
		return nil, err
	}

	return zstd.CompressLevel(nil, raw.Bytes(), compressionLevel)
}

func decodeSecondaries(data []byte) ([]physics.Secondary, error) {
	raw, err := zstd.Decompress(nil, data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	rd := bytes.NewReader(raw)

	var hdr bankHeader
	if err := binary.Read(rd, binary.LittleEndian, &hdr); err != nil {
		return nil, fmt.Errorf("%w: header: %v", ErrCorrupt, err)
	}
	if hdr.Magic != bankMagic {
		return nil, fmt.Errorf("%w: bad magic %q", ErrCorrupt, hdr.Magic[:])
	}
	if hdr.Version != bankVersion {
		return nil, fmt.Errorf("%w: unsupported version %d", ErrCorrupt, hdr.Version)
	}
	recordSize := uint64(binary.Size(bankRecord{}))
	if hdr.Count*recordSize != uint64(rd.Len()) {
		return nil, fmt.Errorf("%w: %d records declared, %d bytes present", ErrCorrupt, hdr.Count, rd.Len())
	}

	records := make([]bankRecord, hdr.Count)
	if err := binary.Read(rd, binary.LittleEndian, records); err != nil {
		return nil, fmt.Errorf("%w: records: %v", ErrCorrupt, err)
	}

	secs := make([]physics.Secondary, len(records))
	for i, r := range records {
		secs[i] = physics.Secondary{
			Energy:    quantity.New[quantity.Mev](r.Energy),
			Direction: r3.Vec{X: r.X, Y: r.Y, Z: r.Z},
		}
		if r.Particle >= 0 {
			secs[i].Particle = ids.New[ids.ParticleTag](int(r.Particle))
		}
	}
	return secs, nil
}

func writeSecondaries(path string, secs []physics.Secondary) error {
	data, err := encodeSecondaries(secs)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func readSecondaries(path string) ([]physics.Secondary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return decodeSecondaries(data)
}
