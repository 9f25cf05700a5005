package models

// ScanParams holds the already-validated filters for one scan request
type ScanParams struct {
	Sport      string
	Markets    string
	Regions    string
	MarketType string   // all, main, props
	Book       string   // restrict EV rows to one book key
	Books      []string // restrict arbitrage legs to these book keys
	MinEdge    float64  // percent, clamped to [-10, 100]
	MinROI     float64  // percent
	BaseStake  float64  // reference total stake for arbitrage legs
}

// EVRow is one (game, book, market, outcome) that survived the edge filters
type EVRow struct {
	ID           string   `json:"id"`
	EventID      string   `json:"event_id"`
	Match        string   `json:"match"`
	Time         string   `json:"time"`
	League       string   `json:"league"`
	BookKey      string   `json:"book_key"`
	BookName     string   `json:"book_name"`
	MarketKey    string   `json:"market_key"`
	MarketLabel  string   `json:"market_label"`
	Bucket       string   `json:"bucket"`
	OutcomeName  string   `json:"outcome_name"`
	Point        *float64 `json:"point,omitempty"`
	Price        int      `json:"odds"` // American odds
	UserDecimal  float64  `json:"user_dec"`
	FairProb     float64  `json:"fair_prob"`
	FairDecimal  float64  `json:"fair_dec"`
	FairAmerican int      `json:"fair_am"`
	EdgePercent  float64  `json:"ev_percent"`
	EVPerDollar  float64  `json:"ev_per_dollar"`
}

// ArbLeg is one side of an arbitrage basket
type ArbLeg struct {
	OutcomeName  string  `json:"outcome_name"`
	Price        int     `json:"price"` // best American odds across books
	Decimal      float64 `json:"decimal"`
	BookKey      string  `json:"book_key"`
	BookName     string  `json:"book_name"`
	SharePercent float64 `json:"share_pct"`
	Stake        float64 `json:"stake"`
	Payout       float64 `json:"payout"`
}

// ArbOpportunity is a head-to-head market whose best cross-book prices guarantee a return
type ArbOpportunity struct {
	ID         string   `json:"id"`
	EventID    string   `json:"event_id"`
	Match      string   `json:"match"`
	Time       string   `json:"time"`
	League     string   `json:"league"`
	MarketKey  string   `json:"market_key"`
	ROIPercent float64  `json:"roi_pct"`
	InverseSum float64  `json:"inverse_sum"`
	TotalStake float64  `json:"total_stake"`
	Legs       []ArbLeg `json:"legs"`
}

// ScanResult is the combined response of one scan
type ScanResult struct {
	EV           []EVRow          `json:"ev"`
	Arbs         []ArbOpportunity `json:"arbs"`
	EVCount      int              `json:"ev_count"`
	ArbCount     int              `json:"arb_count"`
	GamesScanned int              `json:"games_scanned"`
	Message      string           `json:"message"`
}

// BonusType names a sportsbook promotion
type BonusType string

const (
	BonusRiskFree     BonusType = "risk-free"
	BonusDepositMatch BonusType = "deposit-match"
	BonusOddsBoost    BonusType = "odds-boost"
	BonusProfitBoost  BonusType = "profit-boost"
)

// ValidBonusTypes lists the promotions the bonus scanner understands
var ValidBonusTypes = map[BonusType]bool{
	BonusRiskFree:     true,
	BonusDepositMatch: true,
	BonusOddsBoost:    true,
	BonusProfitBoost:  true,
}

// BonusParams holds the filters for a bonus-bet scan
type BonusParams struct {
	Sport      string
	MarketType string
	Book       string
	Type       BonusType
	Amount     float64 // bonus amount in dollars
	MinOdds    int     // American odds floor
}

// BonusRow is one outcome ranked for a given promotion
type BonusRow struct {
	ID            string    `json:"id"`
	EventID       string    `json:"event_id"`
	Match         string    `json:"match"`
	Time          string    `json:"time"`
	League        string    `json:"league"`
	BookKey       string    `json:"book_key"`
	BookName      string    `json:"book_name"`
	MarketKey     string    `json:"market_key"`
	MarketLabel   string    `json:"market_label"`
	OutcomeName   string    `json:"outcome_name"`
	Point         *float64  `json:"point,omitempty"`
	Price         int       `json:"odds"`
	FairProb      float64   `json:"fair_prob"`
	EdgePercent   float64   `json:"edge_pct"`
	ExpectedValue float64   `json:"expected_value"`
	Strategy      string    `json:"strategy"`
	BonusType     BonusType `json:"bonus_type"`
}

// BonusResult is the response of a bonus-bet scan
type BonusResult struct {
	Bets    []BonusRow `json:"bets"`
	Count   int        `json:"count"`
	Message string     `json:"message"`
}
