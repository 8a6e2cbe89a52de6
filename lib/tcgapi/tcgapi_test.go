package tcgapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSetCards(t *testing.T) {
	var gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("q")
		w.Write([]byte(`{"data":[{"id":"base1-4","name":"Charizard"}]}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, nil)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	body, err := client.SetCards(ctx, "base1")
	require.NoError(t, err)
	require.Equal(t, "set.id:base1", gotQuery)
	require.Equal(t, `{"data":[{"id":"base1-4","name":"Charizard"}]}`, string(body))
}

func TestSetCardsErrorPayloadPassthrough(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":{"message":"not found","code":404}}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, nil)

	body, err := client.SetCards(context.Background(), "nope")
	require.NoError(t, err)
	require.Equal(t, `{"error":{"message":"not found","code":404}}`, string(body))
}

func TestParseCards(t *testing.T) {
	t.Run("envelope", func(t *testing.T) {
		cards, err := ParseCards([]byte(`{"data":[{"id":"base1-4","name":"Charizard","number":"4","set":{"id":"base1","name":"Base"}}]}`))
		require.NoError(t, err)
		require.Len(t, cards, 1)
		require.Equal(t, "base1-4", cards[0].ID)
		require.Equal(t, "base1", cards[0].Set.ID)
	})
	t.Run("bare array", func(t *testing.T) {
		cards, err := ParseCards([]byte(`[{"id":"base1-4"}]`))
		require.NoError(t, err)
		require.Len(t, cards, 1)
	})
	t.Run("empty body", func(t *testing.T) {
		cards, err := ParseCards([]byte("  \n"))
		require.NoError(t, err)
		require.Empty(t, cards)
	})
	t.Run("malformed", func(t *testing.T) {
		_, err := ParseCards([]byte(`{"data":`))
		require.Error(t, err)
	})
}

func TestMarketValue(t *testing.T) {
	holo := Card{TCGPlayer: TCGPlayer{Prices: PriceLadder{
		Holofoil: &PricePoints{Market: 420.5},
		Normal:   &PricePoints{Market: 3.5},
	}}}
	require.Equal(t, 420.5, holo.MarketValue())

	normal := Card{TCGPlayer: TCGPlayer{Prices: PriceLadder{
		Normal: &PricePoints{Market: 3.5},
	}}}
	require.Equal(t, 3.5, normal.MarketValue())

	unpriced := Card{}
	require.Equal(t, 0.0, unpriced.MarketValue())
}
