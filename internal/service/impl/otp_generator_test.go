package impl

import (
	"errors"
	"testing"

	"employee-auth/internal/domain"
)

func TestRandomCodeGeneratorRange(t *testing.T) {
	g := NewRandomCodeGenerator()
	for i := 0; i < 2000; i++ {
		code, err := g.Generate()
		if err != nil {
			t.Fatalf("generate: %v", err)
		}
		if !domain.IsOtpFormat(code) {
			t.Fatalf("code %q is not six digits", code)
		}
		if code[0] == '0' {
			t.Fatalf("code %q is below 100000", code)
		}
	}
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("entropy unavailable") }

func TestRandomCodeGeneratorPropagatesReaderError(t *testing.T) {
	g := &RandomCodeGenerator{reader: failingReader{}}
	if _, err := g.Generate(); err == nil {
		t.Fatalf("expected reader error")
	}
}
