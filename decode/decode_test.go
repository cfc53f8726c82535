// Copyright (C) 2025 Michael J. Fromberger. All Rights Reserved.

package decode_test

import (
	"errors"
	"math/big"
	"testing"

	"github.com/creachadair/jzip"
	"github.com/creachadair/jzip/cursor"
	"github.com/creachadair/jzip/decode"
	"github.com/creachadair/jzip/jstr"
	"github.com/google/go-cmp/cmp"
)

func mustRun[A any](t *testing.T, ctx *decode.Context, d decode.Decoder[A], input string) A {
	t.Helper()
	v, err := decode.Run(ctx, d, jzip.MustParse([]byte(input)))
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	return v
}

func checkFails[A any](t *testing.T, d decode.Decoder[A], input string, kind cursor.ErrKind) *decode.Failure {
	t.Helper()
	v, err := decode.Run(nil, d, jzip.MustParse([]byte(input)))
	if err == nil {
		t.Fatalf("Run: got %+v, want error", v)
	}
	var f *decode.Failure
	if !errors.As(err, &f) {
		t.Fatalf("Run: error %v is not a *Failure", err)
	}
	if !cursor.IsKind(err, kind) {
		t.Fatalf("Run: got error %v, want kind %v", err, kind)
	}
	return f
}

func TestScalars(t *testing.T) {
	t.Run("String", func(t *testing.T) {
		if got := mustRun(t, nil, decode.String(), `"a\tb"`); got != "a\tb" {
			t.Errorf("String: got %#q, want %#q", got, "a\tb")
		}
	})
	t.Run("JString", func(t *testing.T) {
		got := mustRun(t, nil, decode.JString(), `"a\tb"`)
		want := jstr.String{jstr.Unescaped('a'), jstr.Tab, jstr.Unescaped('b')}
		if diff := cmp.Diff(got, want); diff != "" {
			t.Errorf("JString (-got, +want):\n%s", diff)
		}
	})
	t.Run("Bool", func(t *testing.T) {
		if got := mustRun(t, nil, decode.Bool(), `true`); !got {
			t.Error("Bool: got false, want true")
		}
	})
	t.Run("Null", func(t *testing.T) {
		if got := mustRun(t, nil, decode.Null(), `null`); got != nil {
			t.Errorf("Null: got %v, want nil", got)
		}
	})
	t.Run("Int64", func(t *testing.T) {
		if got := mustRun(t, nil, decode.Int64(), `-25`); got != -25 {
			t.Errorf("Int64: got %d, want -25", got)
		}
	})
	t.Run("Float64", func(t *testing.T) {
		if got := mustRun(t, nil, decode.Float64(), `6.25e2`); got != 625 {
			t.Errorf("Float64: got %v, want 625", got)
		}
	})
	t.Run("Text", func(t *testing.T) {
		if got := mustRun(t, nil, decode.Text(), `{"a": 1}`); string(got) != `{"a": 1}` {
			t.Errorf("Text: got %#q", got)
		}
	})
	t.Run("TypeMismatch", func(t *testing.T) {
		checkFails(t, decode.String(), `42`, cursor.TypeMismatch)
		checkFails(t, decode.Bool(), `"true"`, cursor.TypeMismatch)
		checkFails(t, decode.Int64(), `null`, cursor.TypeMismatch)
	})
	t.Run("Conversion", func(t *testing.T) {
		checkFails(t, decode.Int64(), `1.5`, cursor.ConversionFailure)
	})
}

func TestNumberContext(t *testing.T) {
	// The conversion hook decides the numeric representation.
	ctx := &decode.Context{Number: func(text []byte) (any, error) {
		r, ok := new(big.Rat).SetString(string(text))
		if !ok {
			return nil, errors.New("not a rational")
		}
		return r, nil
	}}
	got := mustRun(t, ctx, decode.Number(), `123456789123456789123456789`)
	want, _ := new(big.Rat).SetString("123456789123456789123456789")
	if r, ok := got.(*big.Rat); !ok || r.Cmp(want) != 0 {
		t.Errorf("Number: got %v, want %v", got, want)
	}

	// The default hook produces float64.
	if got := mustRun(t, nil, decode.Number(), `0.5`); got != any(0.5) {
		t.Errorf("Number: got %v (%T), want 0.5", got, got)
	}
}

func TestKeys(t *testing.T) {
	const input = `{"name": "box", "size": 3, "deep": {"x": 1}}`

	t.Run("AtKey", func(t *testing.T) {
		if got := mustRun(t, nil, decode.AtKey("size", decode.Int64()), input); got != 3 {
			t.Errorf("AtKey size: got %d, want 3", got)
		}
	})
	t.Run("Nested", func(t *testing.T) {
		d := decode.AtKey("deep", decode.AtKey("x", decode.Int64()))
		if got := mustRun(t, nil, d, input); got != 1 {
			t.Errorf("AtKey deep.x: got %d, want 1", got)
		}
	})
	t.Run("Missing", func(t *testing.T) {
		f := checkFails(t, decode.AtKey("zoom", decode.Int64()), input, cursor.KeyNotFound)
		t.Logf("Got expected failure: %v", f)
	})
	t.Run("MaybePresent", func(t *testing.T) {
		got := mustRun(t, nil, decode.AtKeyMaybe("size", decode.Int64()), input)
		if got == nil || *got != 3 {
			t.Errorf("AtKeyMaybe size: got %v, want 3", got)
		}
	})
	t.Run("MaybeAbsent", func(t *testing.T) {
		if got := mustRun(t, nil, decode.AtKeyMaybe("zoom", decode.Int64()), input); got != nil {
			t.Errorf("AtKeyMaybe zoom: got %v, want nil", got)
		}
	})
	t.Run("MaybeOtherError", func(t *testing.T) {
		// A present key whose value has the wrong type still fails.
		checkFails(t, decode.AtKeyMaybe("name", decode.Int64()), input, cursor.TypeMismatch)
	})
}

func TestRecord(t *testing.T) {
	type point struct{ X, Y int64 }
	pointDec := decode.Bind(decode.AtKey("x", decode.Int64()),
		func(x int64) decode.Decoder[point] {
			return decode.Map(decode.AtKey("y", decode.Int64()),
				func(y int64) point { return point{X: x, Y: y} })
		})

	got := mustRun(t, nil, pointDec, `{"x": 3, "y": 4}`)
	if want := (point{X: 3, Y: 4}); got != want {
		t.Errorf("Record: got %+v, want %+v", got, want)
	}
}

func TestList(t *testing.T) {
	t.Run("Values", func(t *testing.T) {
		got := mustRun(t, nil, decode.List(decode.Int64()), `[1, 2, 3]`)
		if diff := cmp.Diff(got, []int64{1, 2, 3}); diff != "" {
			t.Errorf("List (-got, +want):\n%s", diff)
		}
	})
	t.Run("Empty", func(t *testing.T) {
		got := mustRun(t, nil, decode.List(decode.Int64()), `[]`)
		if got == nil || len(got) != 0 {
			t.Errorf("List of []: got %v, want empty non-nil slice", got)
		}
	})
	t.Run("NotArray", func(t *testing.T) {
		checkFails(t, decode.List(decode.Int64()), `{"a": 1}`, cursor.TypeMismatch)
	})
	t.Run("BadElement", func(t *testing.T) {
		checkFails(t, decode.List(decode.Int64()), `[1, "two"]`, cursor.TypeMismatch)
	})
	t.Run("Nested", func(t *testing.T) {
		got := mustRun(t, nil, decode.List(decode.List(decode.Int64())), `[[1], [], [2, 3]]`)
		if diff := cmp.Diff(got, [][]int64{{1}, {}, {2, 3}}); diff != "" {
			t.Errorf("Nested list (-got, +want):\n%s", diff)
		}
	})
}

func TestNonEmpty(t *testing.T) {
	t.Run("Values", func(t *testing.T) {
		got := mustRun(t, nil, decode.NonEmpty(decode.Int64()), `[5]`)
		if diff := cmp.Diff(got, []int64{5}); diff != "" {
			t.Errorf("NonEmpty (-got, +want):\n%s", diff)
		}
	})
	t.Run("Empty", func(t *testing.T) {
		checkFails(t, decode.NonEmpty(decode.Int64()), `[]`, cursor.FailedToMove)
	})
}

func TestObject(t *testing.T) {
	d := decode.Object(decode.String(), decode.Int64())

	t.Run("Pairs", func(t *testing.T) {
		got := mustRun(t, nil, d, `{"a": 1, "b": 2}`)
		want := []decode.Entry[string, int64]{{Key: "a", Value: 1}, {Key: "b", Value: 2}}
		if diff := cmp.Diff(got, want); diff != "" {
			t.Errorf("Object (-got, +want):\n%s", diff)
		}
	})
	t.Run("Empty", func(t *testing.T) {
		got := mustRun(t, nil, d, `{}`)
		if got == nil || len(got) != 0 {
			t.Errorf("Object of {}: got %v, want empty non-nil slice", got)
		}
	})
	t.Run("NotObject", func(t *testing.T) {
		checkFails(t, d, `[1]`, cursor.TypeMismatch)
	})
}

func TestKeyedValues(t *testing.T) {
	// The key chooses how its value is decoded: counts are numbers, anything
	// else is a string rendered from its source text.
	d := decode.KeyedValues(decode.String(), func(key string) decode.Decoder[string] {
		if key == "count" {
			return decode.Map(decode.Int64(), func(z int64) string {
				return string(rune('0' + z))
			})
		}
		return decode.String()
	})
	got := mustRun(t, nil, d, `{"label": "on", "count": 7}`)
	want := []decode.Entry[string, string]{{Key: "label", Value: "on"}, {Key: "count", Value: "7"}}
	if diff := cmp.Diff(got, want); diff != "" {
		t.Errorf("KeyedValues (-got, +want):\n%s", diff)
	}
}

func TestOneOf(t *testing.T) {
	type color int
	const (
		red color = iota + 1
		green
	)
	d := decode.OneOf(decode.String(), "color",
		decode.Case[string, color]{Tag: "red", Value: red},
		decode.Case[string, color]{Tag: "green", Value: green},
		decode.Case[string, color]{Tag: "red", Value: 99}, // unreachable: first match wins
	)

	if got := mustRun(t, nil, d, `"red"`); got != red {
		t.Errorf("OneOf red: got %v, want %v", got, red)
	}
	if got := mustRun(t, nil, d, `"green"`); got != green {
		t.Errorf("OneOf green: got %v, want %v", got, green)
	}
	f := checkFails(t, d, `"blue"`, cursor.ConversionFailure)
	var ce *cursor.Error
	if !errors.As(f, &ce) || ce.Desc != "color" {
		t.Errorf("OneOf failure: got %v, want label %q", f, "color")
	}
}

func TestAlt(t *testing.T) {
	// Alternatives are tried in order from the same position.
	d := decode.Alt(
		decode.Map(decode.Int64(), func(z int64) string { return "int" }),
		decode.Map(decode.String(), func(string) string { return "string" }),
	)
	if got := mustRun(t, nil, d, `42`); got != "int" {
		t.Errorf("Alt on 42: got %q, want %q", got, "int")
	}
	if got := mustRun(t, nil, d, `"hi"`); got != "string" {
		t.Errorf(`Alt on "hi": got %q, want %q`, got, "string")
	}
	checkFails(t, d, `[1]`, cursor.TypeMismatch)

	t.Run("Empty", func(t *testing.T) {
		checkFails(t, decode.Alt[int](), `1`, cursor.ConversionFailure)
	})

	t.Run("DiscardsFailedBranch", func(t *testing.T) {
		// The winning alternative's history must not include the moves of the
		// failed first branch.
		d := decode.Alt(
			decode.AtKey("missing", decode.Int64()),
			decode.AtKey("b", decode.Int64()),
		)
		ix := jzip.MustParse([]byte(`{"a": 1, "b": 2}`))
		c := cursor.New(ix)
		v, err := d(nil, c)
		if err != nil || v != 2 {
			t.Fatalf("Alt: got %d, %v; want 2, nil", v, err)
		}
		var moves []string
		for _, s := range c.History().Steps() {
			moves = append(moves, s.Move.String())
		}
		want := []string{"down", "right(2)", `at("b")`}
		if diff := cmp.Diff(moves, want); diff != "" {
			t.Errorf("History after Alt (-got, +want):\n%s", diff)
		}
	})
}

func TestOrNull(t *testing.T) {
	d := decode.OrNull(decode.Int64())
	if got := mustRun(t, nil, d, `42`); got == nil || *got != 42 {
		t.Errorf("OrNull on 42: got %v, want 42", got)
	}
	if got := mustRun(t, nil, d, `null`); got != nil {
		t.Errorf("OrNull on null: got %v, want nil", got)
	}
	checkFails(t, d, `"nope"`, cursor.TypeMismatch)
}

func TestRefine(t *testing.T) {
	// Classify numbers into small enum values and back.
	even := decode.Prism[int64, int64]{
		Embed: func(z int64) int64 { return z * 2 },
		Match: func(z int64) (int64, bool) { return z / 2, z%2 == 0 },
	}

	t.Run("Match", func(t *testing.T) {
		got := mustRun(t, nil, decode.Refine(even, decode.Int64()), `10`)
		if got == nil || *got != 5 {
			t.Errorf("Refine on 10: got %v, want 5", got)
		}
	})
	t.Run("NoMatch", func(t *testing.T) {
		if got := mustRun(t, nil, decode.Refine(even, decode.Int64()), `7`); got != nil {
			t.Errorf("Refine on 7: got %v, want nil", got)
		}
	})
	t.Run("OrFail", func(t *testing.T) {
		f := checkFails(t, decode.RefineOrFail(even, decode.Int64(), "odd input"), `7`, cursor.ConversionFailure)
		var ce *cursor.Error
		if !errors.As(f, &ce) || ce.Desc != "odd input" {
			t.Errorf("RefineOrFail: got %v, want desc %q", f, "odd input")
		}
	})
}

func TestFoldDirections(t *testing.T) {
	ix := jzip.MustParse([]byte(`[1, 2, 3]`))

	t.Run("Rightward", func(t *testing.T) {
		first, err := cursor.New(ix).Down()
		if err != nil {
			t.Fatalf("Down: %v", err)
		}
		got, err := decode.Rightward(decode.Int64())(nil, first)
		if err != nil {
			t.Fatalf("Rightward: %v", err)
		}
		if diff := cmp.Diff(got, []int64{1, 2, 3}); diff != "" {
			t.Errorf("Rightward (-got, +want):\n%s", diff)
		}
	})

	t.Run("Leftward", func(t *testing.T) {
		first, err := cursor.New(ix).Down()
		if err != nil {
			t.Fatalf("Down: %v", err)
		}
		last, err := first.RightN(2)
		if err != nil {
			t.Fatalf("RightN: %v", err)
		}
		got, err := decode.Leftward(decode.Int64())(nil, last)
		if err != nil {
			t.Fatalf("Leftward: %v", err)
		}
		if diff := cmp.Diff(got, []int64{1, 2, 3}); diff != "" {
			t.Errorf("Leftward (-got, +want):\n%s", diff)
		}
	})
}

func TestFailureTrail(t *testing.T) {
	// A decoder expecting key "b" fails with KeyNotFound; the trail shows the
	// descent plus one right(2) per key/value pair skipped during the scan.
	// Failed movements append nothing, so on a single-key object the trail is
	// the descent alone.
	tests := []struct {
		input string
		want  []string
	}{
		{`{"a": 1}`, []string{"down"}},
		{`{"a": 1, "x": 2}`, []string{"down", "right(2)"}},
	}
	d := decode.AtKey("b", decode.Int64())
	for _, tc := range tests {
		f := checkFails(t, d, tc.input, cursor.KeyNotFound)

		var moves []string
		for _, s := range f.Trail {
			moves = append(moves, s.Move.String())
		}
		if diff := cmp.Diff(moves, tc.want); diff != "" {
			t.Errorf("Failure trail for %#q (-got, +want):\n%s", tc.input, diff)
		}
		var ce *cursor.Error
		if !errors.As(f, &ce) || ce.Key != "b" {
			t.Errorf("Failure error for %#q: got %v, want KeyNotFound(b)", tc.input, f.Err)
		}
	}
}
