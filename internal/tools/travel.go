package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/voyago/voyago/internal/adapter/amadeus"
	"github.com/voyago/voyago/internal/domain"
)

// NewTravelRegistry builds the registry of travel tools backed by the
// inventory client.
func NewTravelRegistry(inventory *amadeus.Client) *Registry {
	r := NewRegistry()
	r.MustRegister(&searchFlightsTool{inventory})
	r.MustRegister(&searchHotelsTool{inventory})
	r.MustRegister(&hotelOffersTool{inventory})
	r.MustRegister(&bookHotelTool{inventory})
	r.MustRegister(&hotelRatingsTool{inventory})
	r.MustRegister(&searchActivitiesTool{inventory})
	return r
}

// searchFlightsTool searches flight offers between two airports.
type searchFlightsTool struct {
	inventory *amadeus.Client
}

type searchFlightsArgs struct {
	Origin        string `json:"origin" jsonschema:"required,description=IATA code of the departure airport or city"`
	Destination   string `json:"destination" jsonschema:"required,description=IATA code of the arrival airport or city"`
	DepartureDate string `json:"departure_date" jsonschema:"required,description=Departure date in YYYY-MM-DD format"`
	ReturnDate    string `json:"return_date,omitempty" jsonschema:"description=Return date in YYYY-MM-DD format for round trips"`
	Adults        int    `json:"adults,omitempty" jsonschema:"description=Number of adult travelers (defaults to 1)"`
}

func (t *searchFlightsTool) Name() string { return "search_flights" }
func (t *searchFlightsTool) Description() string {
	return "Search for flight offers between two airports on a given date."
}
func (t *searchFlightsTool) Parameters() json.RawMessage { return generateSchema[searchFlightsArgs]() }
func (t *searchFlightsTool) DataType() domain.DataType   { return domain.DataTypeFlights }

func (t *searchFlightsTool) Execute(ctx context.Context, args json.RawMessage) (json.RawMessage, error) {
	var a searchFlightsArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, fmt.Errorf("invalid arguments: %w", err)
	}
	if a.Origin == "" || a.Destination == "" || a.DepartureDate == "" {
		return nil, fmt.Errorf("origin, destination and departure_date are required")
	}
	return t.inventory.SearchFlights(ctx, amadeus.FlightSearchParams{
		Origin:        a.Origin,
		Destination:   a.Destination,
		DepartureDate: a.DepartureDate,
		ReturnDate:    a.ReturnDate,
		Adults:        a.Adults,
	})
}

// searchHotelsTool lists hotels in a city.
type searchHotelsTool struct {
	inventory *amadeus.Client
}

type searchHotelsArgs struct {
	CityCode string `json:"city_code" jsonschema:"required,description=IATA city code such as PAR for Paris"`
}

func (t *searchHotelsTool) Name() string { return "search_hotels" }
func (t *searchHotelsTool) Description() string {
	return "List hotels available in a city."
}
func (t *searchHotelsTool) Parameters() json.RawMessage { return generateSchema[searchHotelsArgs]() }
func (t *searchHotelsTool) DataType() domain.DataType   { return domain.DataTypeHotels }

func (t *searchHotelsTool) Execute(ctx context.Context, args json.RawMessage) (json.RawMessage, error) {
	var a searchHotelsArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, fmt.Errorf("invalid arguments: %w", err)
	}
	if a.CityCode == "" {
		return nil, fmt.Errorf("city_code is required")
	}
	return t.inventory.ListHotels(ctx, a.CityCode)
}

// hotelOffersTool retrieves bookable offers for specific hotels.
type hotelOffersTool struct {
	inventory *amadeus.Client
}

type hotelOffersArgs struct {
	HotelIDs []string `json:"hotel_ids" jsonschema:"required,description=Hotel identifiers returned by search_hotels"`
	CheckIn  string   `json:"check_in,omitempty" jsonschema:"description=Check-in date in YYYY-MM-DD format"`
	CheckOut string   `json:"check_out,omitempty" jsonschema:"description=Check-out date in YYYY-MM-DD format"`
	Adults   int      `json:"adults,omitempty" jsonschema:"description=Number of adult guests (defaults to 1)"`
}

func (t *hotelOffersTool) Name() string { return "get_hotel_offers" }
func (t *hotelOffersTool) Description() string {
	return "Get bookable room offers with prices for specific hotels."
}
func (t *hotelOffersTool) Parameters() json.RawMessage { return generateSchema[hotelOffersArgs]() }
func (t *hotelOffersTool) DataType() domain.DataType   { return domain.DataTypeOffers }

func (t *hotelOffersTool) Execute(ctx context.Context, args json.RawMessage) (json.RawMessage, error) {
	var a hotelOffersArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, fmt.Errorf("invalid arguments: %w", err)
	}
	if len(a.HotelIDs) == 0 {
		return nil, fmt.Errorf("hotel_ids is required")
	}
	return t.inventory.HotelOffers(ctx, a.HotelIDs, a.CheckIn, a.CheckOut, a.Adults)
}

// bookHotelTool books a hotel offer. Its result is conversational only, so
// it carries no UI data type.
type bookHotelTool struct {
	inventory *amadeus.Client
}

type bookHotelArgs struct {
	OfferID string          `json:"offer_id" jsonschema:"required,description=Offer identifier returned by get_hotel_offers"`
	Guests  json.RawMessage `json:"guests" jsonschema:"required,description=Guest details with name and contact email and phone"`
	Total   float64         `json:"total,omitempty" jsonschema:"description=Total price of the offer being booked"`
}

func (t *bookHotelTool) Name() string { return "book_hotel" }
func (t *bookHotelTool) Description() string {
	return "Book a hotel room offer for the given guests."
}
func (t *bookHotelTool) Parameters() json.RawMessage { return generateSchema[bookHotelArgs]() }
func (t *bookHotelTool) DataType() domain.DataType   { return "" }

func (t *bookHotelTool) Execute(ctx context.Context, args json.RawMessage) (json.RawMessage, error) {
	var a bookHotelArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, fmt.Errorf("invalid arguments: %w", err)
	}
	if a.OfferID == "" {
		return nil, fmt.Errorf("offer_id is required")
	}
	return t.inventory.BookHotel(ctx, a.OfferID, a.Guests)
}

// hotelRatingsTool looks up guest sentiment scores. Conversational only.
type hotelRatingsTool struct {
	inventory *amadeus.Client
}

type hotelRatingsArgs struct {
	HotelIDs []string `json:"hotel_ids" jsonschema:"required,description=Hotel identifiers to look up sentiment scores for"`
}

func (t *hotelRatingsTool) Name() string { return "get_hotel_ratings" }
func (t *hotelRatingsTool) Description() string {
	return "Get guest sentiment ratings for specific hotels."
}
func (t *hotelRatingsTool) Parameters() json.RawMessage { return generateSchema[hotelRatingsArgs]() }
func (t *hotelRatingsTool) DataType() domain.DataType   { return "" }

func (t *hotelRatingsTool) Execute(ctx context.Context, args json.RawMessage) (json.RawMessage, error) {
	var a hotelRatingsArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, fmt.Errorf("invalid arguments: %w", err)
	}
	if len(a.HotelIDs) == 0 {
		return nil, fmt.Errorf("hotel_ids is required")
	}
	return t.inventory.HotelSentiments(ctx, a.HotelIDs)
}

// searchActivitiesTool searches tours and activities around a location.
type searchActivitiesTool struct {
	inventory *amadeus.Client
}

type searchActivitiesArgs struct {
	Latitude  float64 `json:"latitude" jsonschema:"required,description=Latitude of the location"`
	Longitude float64 `json:"longitude" jsonschema:"required,description=Longitude of the location"`
}

func (t *searchActivitiesTool) Name() string { return "search_activities" }
func (t *searchActivitiesTool) Description() string {
	return "Search for tours and activities around a geographic location."
}
func (t *searchActivitiesTool) Parameters() json.RawMessage {
	return generateSchema[searchActivitiesArgs]()
}
func (t *searchActivitiesTool) DataType() domain.DataType { return domain.DataTypeActivities }

func (t *searchActivitiesTool) Execute(ctx context.Context, args json.RawMessage) (json.RawMessage, error) {
	var a searchActivitiesArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, fmt.Errorf("invalid arguments: %w", err)
	}
	return t.inventory.SearchActivities(ctx, a.Latitude, a.Longitude)
}
