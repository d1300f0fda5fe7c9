// Package summary reduces tool result sets to bounded textual digests that
// can be re-injected into conversation history in place of the full payload.
package summary

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/voyago/voyago/internal/domain"
)

// Fallback is returned whenever a payload cannot be summarized. Summarization
// never fails the caller.
const Fallback = "data available but summarization failed"

// Per-type item budgets. The digest lists at most this many items per type.
const (
	maxFlights    = 5
	maxHotels     = 10
	maxActivities = 5
	maxOffers     = 5
)

// Summarize returns a deterministic, bounded-length digest of a tool result
// payload. Unknown types and malformed payloads yield the fixed fallback.
func Summarize(dataType domain.DataType, payload json.RawMessage) string {
	switch dataType {
	case domain.DataTypeFlights:
		return summarizeFlights(payload)
	case domain.DataTypeHotels:
		return summarizeHotels(payload)
	case domain.DataTypeActivities:
		return summarizeActivities(payload)
	case domain.DataTypeOffers:
		return summarizeOffers(payload)
	default:
		return Fallback
	}
}

type flightOffer struct {
	Itineraries []struct {
		Segments []struct {
			Departure struct {
				IataCode string `json:"iataCode"`
			} `json:"departure"`
			Arrival struct {
				IataCode string `json:"iataCode"`
			} `json:"arrival"`
		} `json:"segments"`
	} `json:"itineraries"`
	Price struct {
		Total    string `json:"total"`
		Currency string `json:"currency"`
	} `json:"price"`
	ValidatingAirlineCodes []string `json:"validatingAirlineCodes"`
}

func summarizeFlights(payload json.RawMessage) string {
	var offers []flightOffer
	if err := json.Unmarshal(payload, &offers); err != nil {
		return Fallback
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("%d flight offers", len(offers)))
	shown := offers
	if len(shown) > maxFlights {
		shown = shown[:maxFlights]
	}
	for _, o := range shown {
		route := "?->?"
		if len(o.Itineraries) > 0 && len(o.Itineraries[0].Segments) > 0 {
			segs := o.Itineraries[0].Segments
			route = segs[0].Departure.IataCode + "->" + segs[len(segs)-1].Arrival.IataCode
		}
		carrier := ""
		if len(o.ValidatingAirlineCodes) > 0 {
			carrier = " (" + o.ValidatingAirlineCodes[0] + ")"
		}
		b.WriteString(fmt.Sprintf("; %s %s %s%s", route, o.Price.Total, o.Price.Currency, carrier))
	}
	if len(offers) > maxFlights {
		b.WriteString(fmt.Sprintf("; ...and %d more", len(offers)-maxFlights))
	}
	return b.String()
}

type hotel struct {
	Name    string `json:"name"`
	HotelID string `json:"hotelId"`
}

func summarizeHotels(payload json.RawMessage) string {
	var hotels []hotel
	if err := json.Unmarshal(payload, &hotels); err != nil {
		return Fallback
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("%d hotels", len(hotels)))
	shown := hotels
	if len(shown) > maxHotels {
		shown = shown[:maxHotels]
	}
	for _, h := range shown {
		b.WriteString(fmt.Sprintf("; %s (%s)", h.Name, h.HotelID))
	}
	if len(hotels) > maxHotels {
		b.WriteString(fmt.Sprintf("; ...and %d more", len(hotels)-maxHotels))
	}
	return b.String()
}

type activity struct {
	Name  string `json:"name"`
	Price struct {
		Amount       string `json:"amount"`
		CurrencyCode string `json:"currencyCode"`
	} `json:"price"`
}

func summarizeActivities(payload json.RawMessage) string {
	var activities []activity
	if err := json.Unmarshal(payload, &activities); err != nil {
		return Fallback
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("%d activities", len(activities)))
	shown := activities
	if len(shown) > maxActivities {
		shown = shown[:maxActivities]
	}
	for _, a := range shown {
		price := "N/A"
		if a.Price.Amount != "" {
			price = a.Price.Amount + " " + a.Price.CurrencyCode
		}
		b.WriteString(fmt.Sprintf("; %s %s", a.Name, price))
	}
	if len(activities) > maxActivities {
		b.WriteString(fmt.Sprintf("; ...and %d more", len(activities)-maxActivities))
	}
	return b.String()
}

type hotelOffer struct {
	Hotel struct {
		Name string `json:"name"`
	} `json:"hotel"`
	Offers []struct {
		Price struct {
			Total    string `json:"total"`
			Currency string `json:"currency"`
		} `json:"price"`
	} `json:"offers"`
}

func summarizeOffers(payload json.RawMessage) string {
	var offers []hotelOffer
	if err := json.Unmarshal(payload, &offers); err != nil {
		return Fallback
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("%d hotel offers", len(offers)))
	shown := offers
	if len(shown) > maxOffers {
		shown = shown[:maxOffers]
	}
	for _, o := range shown {
		price := "N/A"
		if len(o.Offers) > 0 {
			price = o.Offers[0].Price.Total + " " + o.Offers[0].Price.Currency
		}
		b.WriteString(fmt.Sprintf("; %s: %s", o.Hotel.Name, price))
	}
	return b.String()
}
