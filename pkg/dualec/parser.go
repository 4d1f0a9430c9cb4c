package dualec

import (
	"io"
	"math/big"
	"os"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/mahdiidarabi/dualec/pkg/ec"
)

// paramsFile is the YAML layout of a parameter file:
//
//	curve:
//	  named: secp256r1        # or name/p/a/b spelled out
//	twist:
//	  d: 3
//	layout: coupled
//	points:
//	  p1: {x: "0x...", y: "0x..."}
//	  q1: {x: "0x...", y: "0x..."}
//	  p2: {x: "0x...", y: "0x..."}
//	  q2: {x: "0x...", y: "0x..."}
//	backdoor:                 # optional
//	  bd1: "0x..."
//	  bd2: "0x..."
type paramsFile struct {
	Curve    curveSection     `yaml:"curve"`
	Twist    twistSection     `yaml:"twist"`
	Layout   string           `yaml:"layout,omitempty"`
	Points   pointsSection    `yaml:"points"`
	Backdoor *backdoorSection `yaml:"backdoor,omitempty"`
}

type curveSection struct {
	Named string   `yaml:"named,omitempty"`
	Name  string   `yaml:"name,omitempty"`
	P     *yamlInt `yaml:"p,omitempty"`
	A     *yamlInt `yaml:"a,omitempty"`
	B     *yamlInt `yaml:"b,omitempty"`
}

type twistSection struct {
	D *yamlInt `yaml:"d"`
}

type pointSection struct {
	X *yamlInt `yaml:"x"`
	Y *yamlInt `yaml:"y"`
}

type pointsSection struct {
	P1 pointSection `yaml:"p1"`
	Q1 pointSection `yaml:"q1"`
	P2 pointSection `yaml:"p2"`
	Q2 pointSection `yaml:"q2"`
}

type backdoorSection struct {
	BD1 *yamlInt `yaml:"bd1"`
	BD2 *yamlInt `yaml:"bd2"`
}

// yamlInt reads integers written as hex ("0x...") or decimal and writes them
// back as hex.
type yamlInt struct {
	big.Int
}

func (v *yamlInt) UnmarshalYAML(node *yaml.Node) error {
	n, err := parseBigInt(node.Value)
	if err != nil {
		return errors.Wrapf(err, "line %d", node.Line)
	}
	v.Set(n)
	return nil
}

func (v *yamlInt) MarshalYAML() (interface{}, error) {
	return "0x" + v.Text(16), nil
}

func newYAMLInt(x *big.Int) *yamlInt {
	v := &yamlInt{}
	v.Set(x)
	return v
}

// parseBigInt accepts "0x"-prefixed hex or plain decimal, with optional
// underscores between digits.
func parseBigInt(s string) (*big.Int, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), "_", "")
	base := 10
	if rest := strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X"); rest != s {
		s, base = rest, 16
	}
	z, ok := new(big.Int).SetString(s, base)
	if !ok || s == "" {
		return nil, errors.Errorf("invalid number format: %q", s)
	}
	return z, nil
}

// LoadParams reads a parameter file. The key is nil when the file has no
// backdoor section.
func LoadParams(path string) (*Params, *BackdoorKey, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, errors.Wrap(err, "open params file")
	}
	defer f.Close()

	params, key, err := ParseParams(f)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "load %s", path)
	}
	return params, key, nil
}

// ParseParams decodes and validates a YAML parameter document.
func ParseParams(r io.Reader) (*Params, *BackdoorKey, error) {
	var doc paramsFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return nil, nil, errors.Wrap(err, "decode params")
	}

	base, err := doc.Curve.build()
	if err != nil {
		return nil, nil, err
	}
	if doc.Twist.D == nil {
		return nil, nil, errors.Wrap(ErrInvalidParams, "twist.d is required")
	}
	pair, err := ec.NewTwistPair(base, &doc.Twist.D.Int)
	if err != nil {
		return nil, nil, errors.Wrap(err, "build twist")
	}

	layout := DefaultLayout(base.BitSize())
	if doc.Layout != "" {
		if layout, err = ParseLayout(doc.Layout); err != nil {
			return nil, nil, err
		}
	}

	pts := []struct {
		name  string
		sec   pointSection
		curve *ec.Curve
	}{
		{"p1", doc.Points.P1, pair.Base},
		{"q1", doc.Points.Q1, pair.Base},
		{"p2", doc.Points.P2, pair.Twist},
		{"q2", doc.Points.Q2, pair.Twist},
	}
	decoded := make([]*ec.Point, len(pts))
	for i, p := range pts {
		if p.sec.X == nil || p.sec.Y == nil {
			return nil, nil, errors.Wrapf(ErrInvalidParams, "points.%s needs x and y", p.name)
		}
		if decoded[i], err = p.curve.NewPoint(&p.sec.X.Int, &p.sec.Y.Int); err != nil {
			return nil, nil, errors.Wrapf(err, "points.%s", p.name)
		}
	}

	params, err := NewParams(pair, decoded[0], decoded[1], decoded[2], decoded[3], layout)
	if err != nil {
		return nil, nil, err
	}

	if doc.Backdoor == nil {
		return params, nil, nil
	}
	if doc.Backdoor.BD1 == nil || doc.Backdoor.BD2 == nil {
		return nil, nil, errors.Wrap(ErrMissingBackdoor, "backdoor needs bd1 and bd2")
	}
	key := &BackdoorKey{
		BD1: new(big.Int).Set(&doc.Backdoor.BD1.Int),
		BD2: new(big.Int).Set(&doc.Backdoor.BD2.Int),
	}
	if err := ValidateKey(params, key); err != nil {
		return nil, nil, errors.Wrap(err, "backdoor")
	}
	return params, key, nil
}

func (c curveSection) build() (*ec.Curve, error) {
	if c.Named != "" {
		if c.P != nil || c.A != nil || c.B != nil {
			return nil, errors.Wrap(ErrInvalidParams, "curve.named excludes p, a and b")
		}
		curve, err := ec.NamedCurve(c.Named)
		return curve, errors.Wrap(err, "curve")
	}
	if c.P == nil || c.A == nil || c.B == nil {
		return nil, errors.Wrap(ErrInvalidParams, "curve needs named or p, a and b")
	}
	name := c.Name
	if name == "" {
		name = "custom"
	}
	curve, err := ec.NewCurve(name, &c.P.Int, &c.A.Int, &c.B.Int)
	if err != nil {
		return nil, errors.Wrap(err, "curve")
	}
	if curve.IsSingular() {
		return nil, errors.Wrap(ErrInvalidParams, "curve is singular")
	}
	return curve, nil
}

// WriteParams encodes params, and key when non-nil, as YAML. Base curves from
// the registry are written by name.
func WriteParams(w io.Writer, params *Params, key *BackdoorKey) error {
	base := params.Pair.Base
	doc := paramsFile{
		Twist:  twistSection{D: newYAMLInt(params.Pair.D())},
		Layout: params.Layout.String(),
		Points: pointsSection{
			P1: pointOf(params.P1),
			Q1: pointOf(params.Q1),
			P2: pointOf(params.P2),
			Q2: pointOf(params.Q2),
		},
	}
	if named, err := ec.NamedCurve(base.Name()); err == nil && named.Equal(base) {
		doc.Curve.Named = named.Name()
	} else {
		doc.Curve = curveSection{
			Name: base.Name(),
			P:    newYAMLInt(base.P()),
			A:    newYAMLInt(base.A()),
			B:    newYAMLInt(base.B()),
		}
	}
	if key != nil {
		doc.Backdoor = &backdoorSection{BD1: newYAMLInt(key.BD1), BD2: newYAMLInt(key.BD2)}
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(&doc); err != nil {
		return errors.Wrap(err, "encode params")
	}
	return errors.Wrap(enc.Close(), "flush params")
}

func pointOf(p *ec.Point) pointSection {
	return pointSection{X: newYAMLInt(p.X()), Y: newYAMLInt(p.Y())}
}
