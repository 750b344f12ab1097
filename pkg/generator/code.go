package generator

import (
	"crypto/rand"
	"io"
	"math/big"
)

const (
	alphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

	// DefaultLength gives ~35.7 bits of entropy per code.
	DefaultLength = 6
)

// Generator produces random short-code candidates. The randomness source is
// injectable so tests can force collisions deterministically.
type Generator struct {
	length int
	rand   io.Reader
}

func New(length int) *Generator {
	return NewWithRand(length, rand.Reader)
}

func NewWithRand(length int, r io.Reader) *Generator {
	if length <= 0 {
		length = DefaultLength
	}
	return &Generator{length: length, rand: r}
}

func (g *Generator) Generate() (string, error) {
	max := big.NewInt(int64(len(alphabet)))
	b := make([]byte, g.length)
	for i := range b {
		n, err := rand.Int(g.rand, max)
		if err != nil {
			return "", err
		}
		b[i] = alphabet[n.Int64()]
	}
	return string(b), nil
}
