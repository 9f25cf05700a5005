package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"
)

// ErrInvalidDocument is returned when the upstream odds payload is not a list of games.
var ErrInvalidDocument = errors.New("invalid odds document")

// Market keys and buckets
const (
	MarketKeyH2H     = "h2h"
	MarketKeySpreads = "spreads"
	MarketKeyTotals  = "totals"

	BucketAll   = "all"
	BucketMain  = "main"
	BucketProps = "props"
)

// MainMarkets is the fixed set of market keys classified as "main".
var MainMarkets = map[string]bool{
	MarketKeyH2H:     true,
	MarketKeySpreads: true,
	MarketKeyTotals:  true,
}

// ClassifyMarket returns the bucket ("main" or "props") for a market key.
func ClassifyMarket(key string) string {
	if MainMarkets[key] {
		return BucketMain
	}
	return BucketProps
}

// MarketLabel turns a market key into a display label (player_points → player points).
func MarketLabel(key string) string {
	return strings.ReplaceAll(key, "_", " ")
}

// Game represents one event in the upstream odds document
type Game struct {
	ID           string      `json:"id"`
	SportKey     string      `json:"sport_key"`
	SportTitle   string      `json:"sport_title"`
	CommenceTime string      `json:"commence_time"`
	HomeTeam     string      `json:"home_team"`
	AwayTeam     string      `json:"away_team"`
	Bookmakers   []Bookmaker `json:"bookmakers"`
}

// Bookmaker represents one sportsbook's markets for a game
type Bookmaker struct {
	Key     string   `json:"key"`
	Title   string   `json:"title"`
	Markets []Market `json:"markets"`
}

// Market represents one market (h2h, spreads, totals, props) offered by a book
type Market struct {
	Key      string    `json:"key"`
	Outcomes []Outcome `json:"outcomes"`
}

// Outcome represents a single priced outcome
type Outcome struct {
	Name  string   `json:"name"`
	Price int      `json:"price"`           // American odds, 0 = absent
	Point *float64 `json:"point,omitempty"` // For spreads/totals
}

// Identifier returns the game id, falling back to the commence time.
func (g Game) Identifier() string {
	if g.ID != "" {
		return g.ID
	}
	return g.CommenceTime
}

// MatchLabel returns "Home vs Away".
func (g Game) MatchLabel() string {
	return fmt.Sprintf("%s vs %s", g.HomeTeam, g.AwayTeam)
}

// StartTime parses the commence time. The zero time is returned when it is missing or malformed.
func (g Game) StartTime() time.Time {
	t, err := time.Parse(time.RFC3339, g.CommenceTime)
	if err != nil {
		return time.Time{}
	}
	return t
}

// TimeLabel formats the start time for display, or "" when unknown.
func (g Game) TimeLabel() string {
	t := g.StartTime()
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format("Jan 2, 3:04 PM")
}

// HasPrice reports whether the outcome carries a usable price.
func (o Outcome) HasPrice() bool {
	return o.Price != 0
}

// DecodeGames decodes an upstream odds payload. The document itself must be a JSON
// array; individual games, bookmakers, markets and outcomes that fail to decode are
// dropped rather than failing the whole document.
func DecodeGames(data []byte) ([]Game, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, ErrInvalidDocument
	}

	var raw []json.RawMessage
	if err := json.Unmarshal(trimmed, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}

	return decodeList[Game](raw), nil
}

// UnmarshalJSON decodes a game, skipping malformed bookmakers.
func (g *Game) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID           string          `json:"id"`
		SportKey     string          `json:"sport_key"`
		SportTitle   string          `json:"sport_title"`
		CommenceTime string          `json:"commence_time"`
		HomeTeam     string          `json:"home_team"`
		AwayTeam     string          `json:"away_team"`
		Bookmakers   json.RawMessage `json:"bookmakers"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*g = Game{
		ID:           raw.ID,
		SportKey:     raw.SportKey,
		SportTitle:   raw.SportTitle,
		CommenceTime: raw.CommenceTime,
		HomeTeam:     raw.HomeTeam,
		AwayTeam:     raw.AwayTeam,
		Bookmakers:   decodeList[Bookmaker](rawElements(raw.Bookmakers)),
	}
	return nil
}

// UnmarshalJSON decodes a bookmaker, skipping malformed markets.
func (b *Bookmaker) UnmarshalJSON(data []byte) error {
	var raw struct {
		Key     string          `json:"key"`
		Title   string          `json:"title"`
		Markets json.RawMessage `json:"markets"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*b = Bookmaker{
		Key:     raw.Key,
		Title:   raw.Title,
		Markets: decodeList[Market](rawElements(raw.Markets)),
	}
	return nil
}

// UnmarshalJSON decodes a market, skipping malformed outcomes.
func (m *Market) UnmarshalJSON(data []byte) error {
	var raw struct {
		Key      string          `json:"key"`
		Outcomes json.RawMessage `json:"outcomes"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*m = Market{
		Key:      raw.Key,
		Outcomes: decodeList[Outcome](rawElements(raw.Outcomes)),
	}
	return nil
}

// UnmarshalJSON decodes an outcome. A non-numeric or zero price leaves Price at 0;
// a non-numeric point leaves Point nil.
func (o *Outcome) UnmarshalJSON(data []byte) error {
	var raw struct {
		Name  string          `json:"name"`
		Price json.RawMessage `json:"price"`
		Point json.RawMessage `json:"point"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*o = Outcome{Name: raw.Name}

	if price, ok := rawNumber(raw.Price); ok {
		o.Price = int(math.Round(price))
	}
	if point, ok := rawNumber(raw.Point); ok {
		o.Point = &point
	}
	return nil
}

// rawElements splits a raw JSON array into its elements. Anything that is not an
// array yields nil.
func rawElements(data json.RawMessage) []json.RawMessage {
	if len(data) == 0 {
		return nil
	}

	var elems []json.RawMessage
	if err := json.Unmarshal(data, &elems); err != nil {
		return nil
	}
	return elems
}

func decodeList[T any](elems []json.RawMessage) []T {
	out := make([]T, 0, len(elems))
	for _, elem := range elems {
		if isNull(elem) {
			continue
		}

		var item T
		if err := json.Unmarshal(elem, &item); err != nil {
			continue
		}
		out = append(out, item)
	}
	return out
}

func isNull(data json.RawMessage) bool {
	trimmed := bytes.TrimSpace(data)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

func rawNumber(data json.RawMessage) (float64, bool) {
	if isNull(data) {
		return 0, false
	}

	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
