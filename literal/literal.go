// Copyright 2024 Nextdataplatform, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package literal implements ValueLiteral: the tagged value used as a
// comparison argument in the predicate algebra. Its single responsibility
// is rendering a value into the execution engine's literal syntax, and
// comparing a literal against an arbitrary row value at evaluation time.
package literal

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cast"
	errors "gopkg.in/src-d/go-errors.v1"
)

// Kind identifies which of the four literal shapes a Value holds.
type Kind int

const (
	// String is a quoted textual literal.
	String Kind = iota
	// Timestamp is a point in time, rendered per TimestampLayout.
	Timestamp
	// Int is a bare signed integer literal.
	Int
	// Float is a bare floating-point literal.
	Float
)

func (k Kind) String() string {
	switch k {
	case String:
		return "string"
	case Timestamp:
		return "timestamp"
	case Int:
		return "int"
	case Float:
		return "float"
	default:
		return "unknown"
	}
}

// TimestampLayout is the fixed ISO-8601 profile used to render Timestamp
// literals, resolving the "timestamp rendering precision" open question
// left unspecified by the source implementation.
const TimestampLayout = time.RFC3339Nano

// ErrInvalidLiteral is returned when a comparison literal cannot be safely
// rendered, or when a value cannot be coerced into any supported Kind.
var ErrInvalidLiteral = errors.NewKind("invalid literal: %s")

// Value is an immutable tagged comparison literal.
type Value struct {
	kind Kind
	s    string
	t    time.Time
	i    int64
	f    float64
}

// NewString builds a string literal.
func NewString(s string) Value { return Value{kind: String, s: s} }

// NewTimestamp builds a timestamp literal.
func NewTimestamp(t time.Time) Value { return Value{kind: Timestamp, t: t} }

// NewInt builds an integer literal.
func NewInt(i int64) Value { return Value{kind: Int, i: i} }

// NewFloat builds a floating-point literal.
func NewFloat(f float64) Value { return Value{kind: Float, f: f} }

// From coerces an arbitrary Go value supplied by a caller (e.g. a comparison
// argument passed to a column handle) into a Value. It leans on
// github.com/spf13/cast so that e.g. a json-decoded float64 can still be
// used where an Int literal is semantically intended, matching the loose
// typing the original reader accepted.
func From(v any) (Value, error) {
	switch x := v.(type) {
	case Value:
		return x, nil
	case string:
		return NewString(x), nil
	case time.Time:
		return NewTimestamp(x), nil
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		i, err := cast.ToInt64E(x)
		if err != nil {
			return Value{}, ErrInvalidLiteral.New(err.Error())
		}
		return NewInt(i), nil
	case float32, float64:
		f, err := cast.ToFloat64E(x)
		if err != nil {
			return Value{}, ErrInvalidLiteral.New(err.Error())
		}
		return NewFloat(f), nil
	default:
		return Value{}, ErrInvalidLiteral.New(fmt.Sprintf("unsupported literal type %T", v))
	}
}

// Kind reports the literal's shape.
func (v Value) Kind() Kind { return v.kind }

// Interface returns the literal's underlying Go value.
func (v Value) Interface() any {
	switch v.kind {
	case String:
		return v.s
	case Timestamp:
		return v.t
	case Int:
		return v.i
	case Float:
		return v.f
	default:
		return nil
	}
}

// escapeString applies the escape policy resolving the "literal escaping"
// open question: embedded single quotes are doubled (the standard SQL
// escape), and a NUL byte is rejected outright since it cannot be safely
// embedded in any text literal.
func escapeString(s string) (string, error) {
	if strings.ContainsRune(s, 0) {
		return "", ErrInvalidLiteral.New("string literal contains a NUL byte")
	}
	return strings.ReplaceAll(s, "'", "''"), nil
}

// Render renders the literal into the execution engine's literal syntax:
// a single-quoted, escaped literal for String/Timestamp, and a bare
// numeric token for Int/Float.
func (v Value) Render() (string, error) {
	switch v.kind {
	case String:
		escaped, err := escapeString(v.s)
		if err != nil {
			return "", err
		}
		return "'" + escaped + "'", nil
	case Timestamp:
		escaped, err := escapeString(v.t.Format(TimestampLayout))
		if err != nil {
			return "", err
		}
		return "'" + escaped + "'", nil
	case Int:
		return strconv.FormatInt(v.i, 10), nil
	case Float:
		return strconv.FormatFloat(v.f, 'g', -1, 64), nil
	default:
		return "", ErrInvalidLiteral.New("unknown literal kind")
	}
}

// Compare compares the literal against an arbitrary row value, coercing the
// row value into the literal's own Kind first. It returns -1, 0, or 1 the
// way strings.Compare and friends do.
func Compare(rowValue any, v Value) (int, error) {
	switch v.kind {
	case String:
		s, err := cast.ToStringE(rowValue)
		if err != nil {
			return 0, ErrInvalidLiteral.New(err.Error())
		}
		return strings.Compare(s, v.s), nil
	case Timestamp:
		t, err := cast.ToTimeE(rowValue)
		if err != nil {
			return 0, ErrInvalidLiteral.New(err.Error())
		}
		switch {
		case t.Before(v.t):
			return -1, nil
		case t.After(v.t):
			return 1, nil
		default:
			return 0, nil
		}
	case Int:
		i, err := cast.ToInt64E(rowValue)
		if err != nil {
			return 0, ErrInvalidLiteral.New(err.Error())
		}
		switch {
		case i < v.i:
			return -1, nil
		case i > v.i:
			return 1, nil
		default:
			return 0, nil
		}
	case Float:
		f, err := cast.ToFloat64E(rowValue)
		if err != nil {
			return 0, ErrInvalidLiteral.New(err.Error())
		}
		switch {
		case f < v.f:
			return -1, nil
		case f > v.f:
			return 1, nil
		default:
			return 0, nil
		}
	default:
		return 0, ErrInvalidLiteral.New("unknown literal kind")
	}
}
