package ec

import (
	"crypto/elliptic"
	"errors"
	"fmt"
	"math/big"
	"sort"
	"strings"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
)

// ErrUnknownCurve is returned for names missing from the registry.
var ErrUnknownCurve = errors.New("ec: unknown curve")

type namedCurve struct {
	name   string
	params func() *elliptic.CurveParams
	// a is the linear coefficient; elliptic.CurveParams only describes
	// curves with a = -3, which does not hold for secp256k1.
	a func(p *big.Int) *big.Int
	// b overrides params.B when set.
	b *big.Int
}

func minusThree(p *big.Int) *big.Int { return new(big.Int).Sub(p, bigThree) }

func zero(*big.Int) *big.Int { return new(big.Int) }

var registry = map[string]namedCurve{
	"secp256r1": {name: "secp256r1", params: elliptic.P256().Params, a: minusThree},
	"secp384r1": {name: "secp384r1", params: elliptic.P384().Params, a: minusThree},
	"secp256k1": {name: "secp256k1", params: secp256k1.S256().Params, a: zero, b: big.NewInt(7)},
}

var aliases = map[string]string{
	"p-256":      "secp256r1",
	"p256":       "secp256r1",
	"prime256v1": "secp256r1",
	"p-384":      "secp384r1",
	"p384":       "secp384r1",
}

func lookup(name string) (namedCurve, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if canonical, ok := aliases[key]; ok {
		key = canonical
	}
	nc, ok := registry[key]
	if !ok {
		return namedCurve{}, fmt.Errorf("%w: %q", ErrUnknownCurve, name)
	}
	return nc, nil
}

// NamedCurve returns the standard curve registered under name.
func NamedCurve(name string) (*Curve, error) {
	nc, err := lookup(name)
	if err != nil {
		return nil, err
	}
	params := nc.params()
	b := params.B
	if nc.b != nil {
		b = nc.b
	}
	return NewCurve(nc.name, params.P, nc.a(params.P), b)
}

// NamedGenerator returns the standard base point of the named curve.
func NamedGenerator(name string) (*Point, error) {
	nc, err := lookup(name)
	if err != nil {
		return nil, err
	}
	c, err := NamedCurve(nc.name)
	if err != nil {
		return nil, err
	}
	params := nc.params()
	return c.NewPoint(params.Gx, params.Gy)
}

// CurveNames lists the canonical names in the registry.
func CurveNames() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
