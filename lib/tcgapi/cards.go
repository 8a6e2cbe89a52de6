package tcgapi

import (
	"bytes"
	"encoding/json"
)

// CardsPayload is the envelope the API wraps card queries in.
type CardsPayload struct {
	Data []Card `json:"data"`
}

type Card struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Number    string    `json:"number"`
	Set       CardSet   `json:"set"`
	TCGPlayer TCGPlayer `json:"tcgplayer"`
}

type CardSet struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type TCGPlayer struct {
	Prices PriceLadder `json:"prices"`
}

// PriceLadder only carries the two variants the portfolio cares
// about, anything else in the payload is ignored.
type PriceLadder struct {
	Holofoil *PricePoints `json:"holofoil"`
	Normal   *PricePoints `json:"normal"`
}

type PricePoints struct {
	Market float64 `json:"market"`
}

// MarketValue prefers the holofoil market price, falls back to the
// normal market price, and reports 0 when the card is unpriced.
func (c Card) MarketValue() float64 {
	prices := c.TCGPlayer.Prices
	if prices.Holofoil != nil && prices.Holofoil.Market > 0 {
		return prices.Holofoil.Market
	}
	if prices.Normal != nil {
		return prices.Normal.Market
	}
	return 0
}

// ParseCards decodes a card query response. Both the `{"data": [...]}`
// envelope and a bare card array are accepted; an empty body decodes
// to no cards.
func ParseCards(raw []byte) ([]Card, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return nil, nil
	}
	if raw[0] == '[' {
		var cards []Card
		err := json.Unmarshal(raw, &cards)
		return cards, err
	}
	var payload CardsPayload
	err := json.Unmarshal(raw, &payload)
	return payload.Data, err
}
