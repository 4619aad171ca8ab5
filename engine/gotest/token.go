// Package gotest is the reference discovery/execution engine: it drives
// `go test` over a module's packages, using -list for discovery and -json
// streaming for execution. The orchestration core only ever sees the
// engine contract; nothing here leaks upward.
package gotest

import (
	"fmt"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/james-s-tayler/xunit/types"
)

// Case identifies one test function within a package. It is the opaque
// token this engine hands to the core.
type Case struct {
	Pkg  string `msgpack:"pkg"`
	Test string `msgpack:"test"`
}

// Name returns the display name the filter predicate classifies on.
func (c Case) Name() string {
	return c.Test
}

var _ types.TestCase = Case{}

// encodeCase serializes a case into a self-contained msgpack blob.
func encodeCase(c Case) ([]byte, error) {
	data, err := msgpack.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("encoding test case %s: %w", c.Test, err)
	}
	return data, nil
}

// decodeCase deserializes a blob produced by encodeCase.
func decodeCase(data []byte) (Case, error) {
	var c Case
	if err := msgpack.Unmarshal(data, &c); err != nil {
		return Case{}, fmt.Errorf("decoding test case: %w", err)
	}
	if c.Test == "" {
		return Case{}, fmt.Errorf("decoded test case has no name")
	}
	return c, nil
}
