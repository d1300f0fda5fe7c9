package summary

import (
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/voyago/voyago/internal/domain"
)

func flightPayload(t *testing.T, n int) json.RawMessage {
	t.Helper()
	offers := make([]map[string]interface{}, 0, n)
	for i := 0; i < n; i++ {
		offers = append(offers, map[string]interface{}{
			"itineraries": []map[string]interface{}{
				{"segments": []map[string]interface{}{
					{
						"departure": map[string]string{"iataCode": "JFK"},
						"arrival":   map[string]string{"iataCode": "CDG"},
					},
				}},
			},
			"price":                  map[string]string{"total": fmt.Sprintf("%d.00", 400+i), "currency": "EUR"},
			"validatingAirlineCodes": []string{"AF"},
		})
	}
	payload, err := json.Marshal(offers)
	if err != nil {
		t.Fatalf("failed to marshal payload: %v", err)
	}
	return payload
}

func TestSummarizeFlightsBounded(t *testing.T) {
	digest := Summarize(domain.DataTypeFlights, flightPayload(t, 7))

	if !strings.HasPrefix(digest, "7 flight offers") {
		t.Fatalf("digest should lead with the count, got %q", digest)
	}
	if got := strings.Count(digest, "JFK->CDG"); got != 5 {
		t.Fatalf("expected 5 listed offers, got %d in %q", got, digest)
	}
	if !strings.Contains(digest, "...and 2 more") {
		t.Fatalf("expected overflow notice, got %q", digest)
	}
	if !strings.Contains(digest, "400.00 EUR (AF)") {
		t.Fatalf("expected price and carrier, got %q", digest)
	}
}

func TestSummarizeFlightsNoOverflowAtBound(t *testing.T) {
	digest := Summarize(domain.DataTypeFlights, flightPayload(t, 5))

	if strings.Contains(digest, "more") {
		t.Fatalf("no overflow notice expected at the bound, got %q", digest)
	}
}

func TestSummarizeFlightsMissingSegments(t *testing.T) {
	digest := Summarize(domain.DataTypeFlights, json.RawMessage(`[{"price":{"total":"100.00","currency":"USD"}}]`))

	if !strings.Contains(digest, "?->?") {
		t.Fatalf("expected placeholder route, got %q", digest)
	}
}

func TestSummarizeHotelsBounded(t *testing.T) {
	hotels := make([]map[string]string, 0, 12)
	for i := 0; i < 12; i++ {
		hotels = append(hotels, map[string]string{
			"name":    fmt.Sprintf("Hotel %d", i),
			"hotelId": fmt.Sprintf("HL%03d", i),
		})
	}
	payload, _ := json.Marshal(hotels)

	digest := Summarize(domain.DataTypeHotels, payload)

	if !strings.HasPrefix(digest, "12 hotels") {
		t.Fatalf("digest should lead with the count, got %q", digest)
	}
	if !strings.Contains(digest, "Hotel 0 (HL000)") {
		t.Fatalf("expected name and id, got %q", digest)
	}
	if !strings.Contains(digest, "...and 2 more") {
		t.Fatalf("expected overflow notice after 10 entries, got %q", digest)
	}
}

func TestSummarizeActivitiesWithoutPrice(t *testing.T) {
	digest := Summarize(domain.DataTypeActivities, json.RawMessage(
		`[{"name":"Louvre Tour","price":{"amount":"30.00","currencyCode":"EUR"}},{"name":"Free Walking Tour"}]`))

	if !strings.Contains(digest, "Louvre Tour 30.00 EUR") {
		t.Fatalf("expected priced activity, got %q", digest)
	}
	if !strings.Contains(digest, "Free Walking Tour N/A") {
		t.Fatalf("expected N/A for missing price, got %q", digest)
	}
}

func TestSummarizeOffers(t *testing.T) {
	digest := Summarize(domain.DataTypeOffers, json.RawMessage(
		`[{"hotel":{"name":"Grand Palace"},"offers":[{"price":{"total":"220.00","currency":"EUR"}}]},{"hotel":{"name":"Budget Inn"}}]`))

	if !strings.HasPrefix(digest, "2 hotel offers") {
		t.Fatalf("digest should lead with the count, got %q", digest)
	}
	if !strings.Contains(digest, "Grand Palace: 220.00 EUR") {
		t.Fatalf("expected offer price, got %q", digest)
	}
	if !strings.Contains(digest, "Budget Inn: N/A") {
		t.Fatalf("expected N/A without offers, got %q", digest)
	}
}

func TestSummarizeFallback(t *testing.T) {
	cases := []struct {
		name     string
		dataType domain.DataType
		payload  json.RawMessage
	}{
		{"malformed payload", domain.DataTypeFlights, json.RawMessage(`{"not":"an array"}`)},
		{"unknown type", domain.DataType("weather"), json.RawMessage(`[]`)},
		{"empty type", domain.DataType(""), json.RawMessage(`[]`)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Summarize(tc.dataType, tc.payload); got != Fallback {
				t.Fatalf("expected fallback, got %q", got)
			}
		})
	}
}
