package abi

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	ethabi "github.com/ethereum/go-ethereum/accounts/abi"
)

var ErrUnknownSignature = errors.New("unknown function signature")

// Codec packs and unpacks calls by full signature, e.g.
// "multicall(uint256,bytes[])", so overloaded functions stay unambiguous
type Codec struct {
	methods map[string]ethabi.Method
}

// NewCodec parses one or more JSON ABIs into a single signature index
func NewCodec(rawABIs ...string) (*Codec, error) {
	c := &Codec{methods: make(map[string]ethabi.Method)}
	for _, raw := range rawABIs {
		parsed, err := ethabi.JSON(strings.NewReader(raw))
		if err != nil {
			return nil, fmt.Errorf("failed to parse ABI: %w", err)
		}
		for _, m := range parsed.Methods {
			c.methods[m.Sig] = m
		}
	}
	return c, nil
}

// NewRouterCodec indexes every call the swap router compiler emits
func NewRouterCodec() (*Codec, error) {
	return NewCodec(RouterABI)
}

// NewVenueCodec indexes the pair, pool and factory reads
func NewVenueCodec() (*Codec, error) {
	return NewCodec(PairABI, PoolABI, FactoryABI)
}

func (c *Codec) method(signature string) (ethabi.Method, error) {
	m, ok := c.methods[signature]
	if !ok {
		return ethabi.Method{}, fmt.Errorf("%w: %s", ErrUnknownSignature, signature)
	}
	return m, nil
}

// Encode returns the selector of signature followed by the packed args
func (c *Codec) Encode(signature string, args ...any) ([]byte, error) {
	m, err := c.method(signature)
	if err != nil {
		return nil, err
	}
	packed, err := m.Inputs.Pack(args...)
	if err != nil {
		return nil, fmt.Errorf("failed to pack %s: %w", signature, err)
	}
	out := make([]byte, 0, len(m.ID)+len(packed))
	out = append(out, m.ID...)
	return append(out, packed...), nil
}

// Decode unpacks the return data of signature
func (c *Codec) Decode(signature string, data []byte) ([]any, error) {
	m, err := c.method(signature)
	if err != nil {
		return nil, err
	}
	values, err := m.Outputs.Unpack(data)
	if err != nil {
		return nil, fmt.Errorf("failed to unpack %s: %w", signature, err)
	}
	return values, nil
}

// Signatures lists every indexed signature in sorted order
func (c *Codec) Signatures() []string {
	out := make([]string, 0, len(c.methods))
	for sig := range c.methods {
		out = append(out, sig)
	}
	sort.Strings(out)
	return out
}
