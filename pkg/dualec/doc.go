// Package dualec implements a Dual-EC style deterministic bit generator over an
// elliptic curve and its quadratic twist, and the predictor that breaks it
// when the discrete logs between the generator points are known.
//
// Each step updates the state s to x(s*P) and emits x(s*Q) from the new state,
// on the base curve or on the twist depending on the low bits of s. Twist
// x-coordinates are scaled by d^-1 so both branches produce field values.
// Whoever knows bd with bd*Q = P can lift one output chunk back to +-s*Q,
// multiply by bd to get the next state, and replay the rest of the stream.
//
// # Quick Start
//
//	params, key, err := dualec.DemoP256()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	client := dualec.NewClient(params).WithKey(key)
//	stream, _ := client.Generate(seed, 2048)
//
//	prefix, _ := stream.Prefix(512)
//	pred, err := client.Predict(ctx, prefix, 2048)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(pred.Stream.Equal(stream))
//
// # Verification
//
// A recovered state is only trusted after it reproduces at least one later
// observed chunk. With SplitControl, recovery works only for chunks whose two
// control bits agree, so Predict scans candidate chunks until one verifies:
//
//	client.WithVerifyConfig(dualec.VerifyConfig{VerifyChunks: 2})
//
// # Parameter Files
//
// LoadParams and WriteParams read and write parameters, with an optional
// backdoor section, as YAML. GenerateBackdoor creates fresh parameters for any
// curve.
//
// This code is for studying the construction. It deliberately contains a
// backdoor and none of its arithmetic is constant time.
package dualec
