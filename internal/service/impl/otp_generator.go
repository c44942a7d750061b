package impl

import (
	"crypto/rand"
	"io"
	"math/big"
	"strconv"
)

const (
	otpMin = 100000
	otpMax = 999999
)

// RandomCodeGenerator draws codes uniformly from [100000, 999999] using a
// cryptographic source.
type RandomCodeGenerator struct {
	reader io.Reader
}

func NewRandomCodeGenerator() *RandomCodeGenerator {
	return &RandomCodeGenerator{reader: rand.Reader}
}

func (g *RandomCodeGenerator) Generate() (string, error) {
	n, err := rand.Int(g.reader, big.NewInt(otpMax-otpMin+1))
	if err != nil {
		return "", err
	}
	return strconv.FormatInt(otpMin+n.Int64(), 10), nil
}
