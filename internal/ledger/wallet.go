// Package ledger holds currency balances and experience progression.
package ledger

import "sort"

// Cost is a price across one or more currencies.
type Cost map[string]int

// Wallet maps currency kind to a non-negative amount.
type Wallet map[string]int

// NewWallet seeds every currency in kinds, taking starting amounts from start.
func NewWallet(kinds []string, start map[string]int) Wallet {
	w := Wallet{}
	for _, k := range kinds {
		w[k] = 0
	}
	for k, v := range start {
		if v > 0 {
			w[k] = v
		}
	}
	return w
}

// Add credits amount; non-positive amounts are ignored.
func (w Wallet) Add(kind string, amount int) {
	if amount <= 0 {
		return
	}
	w[kind] += amount
}

// AddAll credits every entry of grants.
func (w Wallet) AddAll(grants map[string]int) {
	for k, v := range grants {
		w.Add(k, v)
	}
}

func (w Wallet) Has(kind string, amount int) bool {
	return w[kind] >= amount
}

// Spend removes amount when affordable.
func (w Wallet) Spend(kind string, amount int) bool {
	if amount <= 0 {
		return true
	}
	if !w.Has(kind, amount) {
		return false
	}
	w[kind] -= amount
	return true
}

func (w Wallet) CanAfford(c Cost) bool {
	for k, v := range c {
		if v > 0 && !w.Has(k, v) {
			return false
		}
	}
	return true
}

// Debit removes the whole cost or nothing.
func (w Wallet) Debit(c Cost) bool {
	if !w.CanAfford(c) {
		return false
	}
	for k, v := range c {
		if v > 0 {
			w[k] -= v
		}
	}
	return true
}

func (w Wallet) Clone() Wallet {
	out := make(Wallet, len(w))
	for k, v := range w {
		out[k] = v
	}
	return out
}

// Kinds lists currencies in name order.
func (w Wallet) Kinds() []string {
	out := make([]string, 0, len(w))
	for k := range w {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
