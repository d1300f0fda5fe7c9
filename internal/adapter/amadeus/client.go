// Package amadeus provides the client for the travel inventory service.
package amadeus

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Client calls the travel inventory API. Every call goes through the
// TokenSource so requests always carry a non-expired bearer token.
type Client struct {
	baseURL    string
	tokens     *TokenSource
	httpClient *http.Client
}

// NewClient creates a new inventory client.
func NewClient(baseURL string, tokens *TokenSource, timeout time.Duration) *Client {
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		tokens:     tokens,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// envelope is the common response wrapper of the inventory API.
type envelope struct {
	Data json.RawMessage `json:"data"`
}

// FlightSearchParams are the inputs to a flight offers search.
type FlightSearchParams struct {
	Origin        string
	Destination   string
	DepartureDate string
	ReturnDate    string
	Adults        int
}

// SearchFlights searches flight offers.
func (c *Client) SearchFlights(ctx context.Context, p FlightSearchParams) (json.RawMessage, error) {
	q := url.Values{}
	q.Set("originLocationCode", p.Origin)
	q.Set("destinationLocationCode", p.Destination)
	q.Set("departureDate", p.DepartureDate)
	if p.ReturnDate != "" {
		q.Set("returnDate", p.ReturnDate)
	}
	adults := p.Adults
	if adults <= 0 {
		adults = 1
	}
	q.Set("adults", strconv.Itoa(adults))
	q.Set("max", "20")

	return c.get(ctx, "/v2/shopping/flight-offers", q)
}

// ListHotels lists hotels in a city.
func (c *Client) ListHotels(ctx context.Context, cityCode string) (json.RawMessage, error) {
	q := url.Values{}
	q.Set("cityCode", cityCode)

	return c.get(ctx, "/v1/reference-data/locations/hotels/by-city", q)
}

// HotelOffers retrieves bookable offers for the given hotels.
func (c *Client) HotelOffers(ctx context.Context, hotelIDs []string, checkIn, checkOut string, adults int) (json.RawMessage, error) {
	q := url.Values{}
	q.Set("hotelIds", strings.Join(hotelIDs, ","))
	if checkIn != "" {
		q.Set("checkInDate", checkIn)
	}
	if checkOut != "" {
		q.Set("checkOutDate", checkOut)
	}
	if adults > 0 {
		q.Set("adults", strconv.Itoa(adults))
	}

	return c.get(ctx, "/v3/shopping/hotel-offers", q)
}

// BookHotel books a hotel offer for the given guests.
func (c *Client) BookHotel(ctx context.Context, offerID string, guests json.RawMessage) (json.RawMessage, error) {
	payload := map[string]interface{}{
		"data": map[string]interface{}{
			"offerId": offerID,
			"guests":  guests,
		},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal booking request: %w", err)
	}

	return c.post(ctx, "/v1/booking/hotel-bookings", body)
}

// HotelSentiments retrieves guest sentiment scores for the given hotels.
func (c *Client) HotelSentiments(ctx context.Context, hotelIDs []string) (json.RawMessage, error) {
	q := url.Values{}
	q.Set("hotelIds", strings.Join(hotelIDs, ","))

	return c.get(ctx, "/v2/e-reputation/hotel-sentiments", q)
}

// SearchActivities searches tours and activities around a location.
func (c *Client) SearchActivities(ctx context.Context, latitude, longitude float64) (json.RawMessage, error) {
	q := url.Values{}
	q.Set("latitude", strconv.FormatFloat(latitude, 'f', -1, 64))
	q.Set("longitude", strconv.FormatFloat(longitude, 'f', -1, 64))

	return c.get(ctx, "/v1/shopping/activities", q)
}

func (c *Client) get(ctx context.Context, path string, q url.Values) (json.RawMessage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	return c.do(req)
}

func (c *Client) post(ctx context.Context, path string, body []byte) (json.RawMessage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req)
}

func (c *Client) do(req *http.Request) (json.RawMessage, error) {
	token, err := c.tokens.Token(req.Context())
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("inventory API error [%d]: %s", resp.StatusCode, string(respBody))
	}

	var env envelope
	if err := json.Unmarshal(respBody, &env); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}
	if env.Data == nil {
		return json.RawMessage(`[]`), nil
	}

	return env.Data, nil
}
