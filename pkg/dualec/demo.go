package dualec

import (
	"fmt"
	"math/big"

	"github.com/mahdiidarabi/dualec/pkg/ec"
)

// Demonstration parameters over secp256r1 and its twist by 3.
const (
	demoCurve = "secp256r1"
	demoD     = 3

	demoP1x = "2def918fd68d15bc27742e5499cfe9df4e3405fb6f03dccef9e11cf8986ef60d"
	demoP1y = "80cb4cbaee8a37f0d8336033ddb0f4d15f064d17deb110e7668948de470575c7"
	demoQ1x = "5822f5aa237a91ac8b7be9a5614b3ae34bc0aa5022d234c38e3a287de60c0078"
	demoQ1y = "6717d95400a7b6a78a0b6499816772b7d0965b0bd8f516979f790ea0868c5959"
	demoP2x = "f9fb6d843d24d0b61eaeef05d4e53b1bd0290afd95124745acdc2576f36bfe75"
	demoP2y = "ac8a43049931c62b31d2f6606f7e14ad6b0db530519433121f07d461bf22a84f"
	demoQ2x = "2424f07d29fb8133d962bfd7a1e5b296b1cead6c5a482d6d29c99f9d85b2e5fc"
	demoQ2y = "292e87681c1c09c4f4c7dc869e3e8d89353bef62f95078130704aff1b4b0f617"

	demoBD1 = "f7377a64f51def12dddfcbd40c65b5edcda9d18c058ec8d129b2a5868a40fc23"
	demoBD2 = "db692bb9ab34f817552a6e811ae77eba2f62562a7d01a5effe0ba013aa5ceff6"
)

func hexInt(s string) *big.Int {
	v, ok := new(big.Int).SetString(s, 16)
	if !ok {
		panic("dualec: bad hex constant " + s)
	}
	return v
}

// DemoP256 returns fixed backdoored parameters over secp256r1 with the
// coupled control layout, and their key.
func DemoP256() (*Params, *BackdoorKey, error) {
	base, err := ec.NamedCurve(demoCurve)
	if err != nil {
		return nil, nil, err
	}
	pair, err := ec.NewTwistPair(base, big.NewInt(demoD))
	if err != nil {
		return nil, nil, err
	}

	pt := func(c *ec.Curve, name, x, y string) (*ec.Point, error) {
		p, err := c.NewPoint(hexInt(x), hexInt(y))
		if err != nil {
			return nil, fmt.Errorf("demo point %s: %w", name, err)
		}
		return p, nil
	}
	p1, err := pt(pair.Base, "P1", demoP1x, demoP1y)
	if err != nil {
		return nil, nil, err
	}
	q1, err := pt(pair.Base, "Q1", demoQ1x, demoQ1y)
	if err != nil {
		return nil, nil, err
	}
	p2, err := pt(pair.Twist, "P2", demoP2x, demoP2y)
	if err != nil {
		return nil, nil, err
	}
	q2, err := pt(pair.Twist, "Q2", demoQ2x, demoQ2y)
	if err != nil {
		return nil, nil, err
	}

	params, err := NewParams(pair, p1, q1, p2, q2, CoupledControl)
	if err != nil {
		return nil, nil, err
	}
	return params, &BackdoorKey{BD1: hexInt(demoBD1), BD2: hexInt(demoBD2)}, nil
}
