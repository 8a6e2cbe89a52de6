package tcgapi

import (
	"context"
	"fmt"

	"cardvault-backend/lib/restyutil"

	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("lib/tcgapi")

// DefaultBaseUrl is the public Pokémon TCG API.
const DefaultBaseUrl = "https://api.pokemontcg.io/v2"

type Client struct {
	http *resty.Client
}

// NewClient creates a client against the given base url. `output`
// can be nil, it only matters when debug logging is enabled.
func NewClient(baseUrl string, output restyutil.InstrumentOutput) Client {
	http := resty.New().SetBaseURL(baseUrl)
	restyutil.InstrumentClient(http, tracer, output)
	return Client{http: http}
}

// SetCards fetches every card belonging to a set and returns the
// response body as-is. The status code is not inspected; an error
// payload flows through like any other body.
func (c Client) SetCards(ctx context.Context, setID string) ([]byte, error) {
	res, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("q", fmt.Sprintf("set.id:%s", setID)).
		Get("/cards")
	if err != nil {
		return nil, err
	}
	return res.Body(), nil
}
