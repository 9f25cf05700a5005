package detector_test

import "github.com/XavierBriggs/fortuna/services/odds-scanner/pkg/models"

func newGame(id string, books ...models.Bookmaker) models.Game {
	return models.Game{
		ID:           id,
		SportKey:     "basketball_nba",
		SportTitle:   "NBA",
		CommenceTime: "2025-01-15T00:30:00Z",
		HomeTeam:     "Lakers",
		AwayTeam:     "Celtics",
		Bookmakers:   books,
	}
}

func newBook(key string, markets ...models.Market) models.Bookmaker {
	return models.Bookmaker{Key: key, Title: key, Markets: markets}
}

func newMarket(key string, outcomes ...models.Outcome) models.Market {
	return models.Market{Key: key, Outcomes: outcomes}
}

func priced(name string, price int) models.Outcome {
	return models.Outcome{Name: name, Price: price}
}

func line(name string, price int, point float64) models.Outcome {
	return models.Outcome{Name: name, Price: price, Point: &point}
}

func h2h(home, away int) models.Market {
	return newMarket(models.MarketKeyH2H, priced("Lakers", home), priced("Celtics", away))
}
