package evaluator

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"
)

// weightMagic identifies the evaluator weight blob format.
const weightMagic uint32 = 0x4F54484C // "OTHL"

const weightFormatVersion uint32 = 1

// Weights holds DefaultEvaluator's four feature coefficients. A real
// deployment would load a learned set from disk via LoadWeights; the
// values returned by DefaultWeights are a hand-tuned placeholder, not a
// calibrated model (see package doc comment).
type Weights struct {
	DiscDiff  int32
	Mobility  int32
	Stability int32
	Square    int32
}

// DefaultWeights returns a reasonable hand-tuned coefficient set:
// mobility and stability carry the largest weights and disc difference
// the smallest; the weights are the same at every stage of the game.
func DefaultWeights() Weights {
	return Weights{
		DiscDiff:  1,
		Mobility:  8,
		Stability: 10,
		Square:    2,
	}
}

// LoadWeights reads a weight blob previously written by SaveWeights:
// magic (4 bytes), format version (4 bytes), then 4 little-endian int32
// coefficients in the order DiscDiff, Mobility, Stability, Square.
func LoadWeights(r io.Reader) (Weights, error) {
	var header [8]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		return Weights{}, fmt.Errorf("othello: reading weight header: %w", err)
	}
	magic := binary.LittleEndian.Uint32(header[0:4])
	if magic != weightMagic {
		return Weights{}, fmt.Errorf("othello: bad weight file magic %08x", magic)
	}
	version := binary.LittleEndian.Uint32(header[4:8])
	if version != weightFormatVersion {
		return Weights{}, fmt.Errorf("othello: unsupported weight file version %d", version)
	}

	var body [16]byte
	if _, err := io.ReadFull(r, body[:]); err != nil {
		return Weights{}, fmt.Errorf("othello: reading weight body: %w", err)
	}
	return Weights{
		DiscDiff:  int32(binary.LittleEndian.Uint32(body[0:4])),
		Mobility:  int32(binary.LittleEndian.Uint32(body[4:8])),
		Stability: int32(binary.LittleEndian.Uint32(body[8:12])),
		Square:    int32(binary.LittleEndian.Uint32(body[12:16])),
	}, nil
}

// LoadWeightsFile opens path and loads its weight blob.
func LoadWeightsFile(path string) (Weights, error) {
	f, err := os.Open(path)
	if err != nil {
		return Weights{}, fmt.Errorf("othello: opening weight file: %w", err)
	}
	defer f.Close()
	return LoadWeights(f)
}

// SaveWeights writes w in the LoadWeights format.
func SaveWeights(w io.Writer, weights Weights) error {
	var buf [24]byte
	binary.LittleEndian.PutUint32(buf[0:4], weightMagic)
	binary.LittleEndian.PutUint32(buf[4:8], weightFormatVersion)
	binary.LittleEndian.PutUint32(buf[8:12], uint32(weights.DiscDiff))
	binary.LittleEndian.PutUint32(buf[12:16], uint32(weights.Mobility))
	binary.LittleEndian.PutUint32(buf[16:20], uint32(weights.Stability))
	binary.LittleEndian.PutUint32(buf[20:24], uint32(weights.Square))
	_, err := w.Write(buf[:])
	return err
}
