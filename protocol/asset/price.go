package asset

import (
	"errors"

	"github.com/shopspring/decimal"
)

var ErrPriceSymbol = errors.New("asset symbol not part of price")

// Price is the exchange rate Base per Quote.
type Price struct {
	Base  Asset `json:"base"`
	Quote Asset `json:"quote"`
}

// Convert expresses a in the other symbol of the price.
func (p Price) Convert(a Asset) (Asset, error) {
	switch a.Symbol {
	case p.Base.Symbol:
		return New(a.Amount.Mul(p.Quote.Amount).DivRound(p.Base.Amount, 16), p.Quote.Symbol), nil
	case p.Quote.Symbol:
		return New(a.Amount.Mul(p.Base.Amount).DivRound(p.Quote.Amount, 16), p.Base.Symbol), nil
	}
	return Asset{}, ErrPriceSymbol
}

// VestingSharePrice is the VESTS per STEEM rate of the vesting fund. An empty
// fund prices one VESTS at one STEEM (the fund symbol).
func VestingSharePrice(totalVestingFund, totalVestingShares Asset) Price {
	if totalVestingFund.IsZero() || totalVestingShares.IsZero() {
		symbol := totalVestingFund.Symbol
		if symbol == "" {
			symbol = STEEM
		}
		return Price{
			Base:  New(decimal.NewFromInt(1), VESTS),
			Quote: New(decimal.NewFromInt(1), symbol),
		}
	}
	return Price{Base: totalVestingShares, Quote: totalVestingFund}
}
