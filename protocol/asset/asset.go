/*
Package asset implements the fixed point token amounts of the network.

An Asset is a decimal amount tagged with a symbol, written "1.000 STEEM".
VESTS carry six decimals, every other symbol three. Arithmetic between assets
requires matching symbols; a Price converts between the two symbols it
relates.

The binary form is the amount in its smallest unit as int64, the precision
as one byte and the symbol zero padded to seven bytes.
*/
package asset

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/freehandle/minddapp/util"
	"github.com/shopspring/decimal"
)

const (
	STEEM = "STEEM"
	SBD   = "SBD"
	VESTS = "VESTS"
	// Testnet symbols
	TESTS = "TESTS"
	TBD   = "TBD"
)

const symbolSize = 7

var (
	ErrInvalidAsset   = errors.New("invalid asset")
	ErrSymbolMismatch = errors.New("asset symbols do not match")
	ErrOutOfRange     = errors.New("asset amount out of range")
)

var (
	maxSatoshis = decimal.NewFromInt(math.MaxInt64)
	minSatoshis = decimal.NewFromInt(math.MinInt64)
)

type Asset struct {
	Amount decimal.Decimal
	Symbol string
}

func Precision(symbol string) int32 {
	if symbol == VESTS {
		return 6
	}
	return 3
}

func New(amount decimal.Decimal, symbol string) Asset {
	return Asset{Amount: amount.Round(Precision(symbol)), Symbol: symbol}
}

func FromInt(amount int64, symbol string) Asset {
	return New(decimal.NewFromInt(amount), symbol)
}

// FromString parses "10.000 SBD". The amount may carry fewer decimals than
// the symbol precision but never more.
func FromString(text string) (Asset, error) {
	fields := strings.Fields(text)
	if len(fields) != 2 {
		return Asset{}, fmt.Errorf("%w: %q", ErrInvalidAsset, text)
	}
	amount, err := decimal.NewFromString(fields[0])
	if err != nil {
		return Asset{}, fmt.Errorf("%w: %q", ErrInvalidAsset, text)
	}
	symbol := fields[1]
	if symbol == "" || len(symbol) > symbolSize || strings.ToUpper(symbol) != symbol {
		return Asset{}, fmt.Errorf("%w: symbol %q", ErrInvalidAsset, symbol)
	}
	if -amount.Exponent() > Precision(symbol) {
		return Asset{}, fmt.Errorf("%w: too many decimals in %q", ErrInvalidAsset, text)
	}
	a := New(amount, symbol)
	if !a.InRange() {
		return Asset{}, fmt.Errorf("%w: %q", ErrOutOfRange, text)
	}
	return a, nil
}

func MustFromString(text string) Asset {
	a, err := FromString(text)
	if err != nil {
		panic(err)
	}
	return a
}

func (a Asset) Precision() int32 {
	return Precision(a.Symbol)
}

func (a Asset) String() string {
	return a.Amount.StringFixed(a.Precision()) + " " + a.Symbol
}

func (a Asset) IsZero() bool {
	return a.Amount.IsZero()
}

func (a Asset) Add(b Asset) (Asset, error) {
	if a.Symbol != b.Symbol {
		return Asset{}, ErrSymbolMismatch
	}
	return New(a.Amount.Add(b.Amount), a.Symbol), nil
}

func (a Asset) Subtract(b Asset) (Asset, error) {
	if a.Symbol != b.Symbol {
		return Asset{}, ErrSymbolMismatch
	}
	return New(a.Amount.Sub(b.Amount), a.Symbol), nil
}

func (a Asset) Multiply(factor decimal.Decimal) Asset {
	return New(a.Amount.Mul(factor), a.Symbol)
}

func (a Asset) Divide(divisor decimal.Decimal) Asset {
	return New(a.Amount.DivRound(divisor, a.Precision()), a.Symbol)
}

// Compare returns -1, 0 or +1.
func (a Asset) Compare(b Asset) (int, error) {
	if a.Symbol != b.Symbol {
		return 0, ErrSymbolMismatch
	}
	return a.Amount.Cmp(b.Amount), nil
}

func Max(a, b Asset) (Asset, error) {
	cmp, err := a.Compare(b)
	if err != nil {
		return Asset{}, err
	}
	if cmp >= 0 {
		return a, nil
	}
	return b, nil
}

// InRange is true when the amount fits the int64 binary form.
func (a Asset) InRange() bool {
	satoshis := a.Amount.Shift(a.Precision())
	return satoshis.Cmp(maxSatoshis) <= 0 && satoshis.Cmp(minSatoshis) >= 0
}

func (a Asset) Serialize(data *[]byte) {
	satoshis := a.Amount.Shift(a.Precision()).Round(0).IntPart()
	util.PutInt64(satoshis, data)
	util.PutByte(byte(a.Precision()), data)
	util.PutFixedString(a.Symbol, symbolSize, data)
}

func (a Asset) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.String())
}

func (a *Asset) UnmarshalJSON(data []byte) error {
	var text string
	if err := json.Unmarshal(data, &text); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidAsset, data)
	}
	parsed, err := FromString(text)
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}
