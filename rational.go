package xml2ly

import (
	"fmt"
	"math/big"
)

// Rational is an exact fraction, used for positions and durations measured
// in whole notes. The zero value is 0. Rationals are immutable: all the
// arithmetic returns new values, so they can be copied freely.
type Rational struct {
	r *big.Rat
}

// NewRational returns num/den. It panics if den is 0.
func NewRational(num, den int64) Rational {
	return Rational{r: big.NewRat(num, den)}
}

// WholeNotes converts a duration given in MusicXML divisions to whole notes,
// divisions being the number of divisions per quarter note.
func WholeNotes(duration, divisions int) Rational {
	return NewRational(int64(duration), int64(divisions)*4)
}

func (a Rational) rat() *big.Rat {
	if a.r == nil {
		return new(big.Rat)
	}
	return a.r
}

func (a Rational) Add(b Rational) Rational {
	return Rational{r: new(big.Rat).Add(a.rat(), b.rat())}
}

func (a Rational) Sub(b Rational) Rational {
	return Rational{r: new(big.Rat).Sub(a.rat(), b.rat())}
}

func (a Rational) Mul(b Rational) Rational {
	return Rational{r: new(big.Rat).Mul(a.rat(), b.rat())}
}

// Cmp returns -1, 0 or +1 depending on whether a < b, a == b or a > b.
func (a Rational) Cmp(b Rational) int {
	return a.rat().Cmp(b.rat())
}

func (a Rational) Sign() int {
	return a.rat().Sign()
}

func (a Rational) IsZero() bool {
	return a.Sign() == 0
}

// Num returns the numerator of a in lowest terms.
func (a Rational) Num() int64 {
	return a.rat().Num().Int64()
}

// Den returns the denominator of a in lowest terms; always positive.
func (a Rational) Den() int64 {
	return a.rat().Denom().Int64()
}

func (a Rational) Equal(b Rational) bool {
	return a.Cmp(b) == 0
}

// String returns "n/d", or just "n" if a is an integer.
func (a Rational) String() string {
	r := a.rat()
	if r.IsInt() {
		return r.Num().String()
	}
	return r.String()
}

func (a Rational) MarshalYAML() (interface{}, error) {
	return a.String(), nil
}

func (a *Rational) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	r, ok := new(big.Rat).SetString(s)
	if !ok {
		return fmt.Errorf("invalid rational %q", s)
	}
	a.r = r
	return nil
}
