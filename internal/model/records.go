package model

import "sort"

// StageID identifies an education stage. The empty StageID means "not enrolled".
type StageID string

// EducationRecord tracks enrollment and completed stages.
//
// INVARIANT: HighestLevel never decreases.
type EducationRecord struct {
	Stage          StageID   `json:"stage,omitempty"`
	Enrolled       bool      `json:"enrolled"`
	YearsInStage   int       `json:"years_in_stage"`
	HighestStage   StageID   `json:"highest_stage,omitempty"`
	HighestLevel   int       `json:"highest_level"`
	Completed      []StageID `json:"completed,omitempty"`
	Certifications []string  `json:"certifications,omitempty"`
}

// HasCompleted reports whether stage id was graduated.
func (r *EducationRecord) HasCompleted(id StageID) bool {
	for _, s := range r.Completed {
		if s == id {
			return true
		}
	}
	return false
}

// CareerRecord tracks a single career ladder.
//
// INVARIANT: LevelIndex only changes by +1 (promotion); it never decreases.
type CareerRecord struct {
	Employed     bool  `json:"employed"`
	LevelIndex   int   `json:"level_index"`
	YearsAtLevel int   `json:"years_at_level"`
	TotalYears   int   `json:"total_years"`
	Performance  int   `json:"performance"`
	Salary       int64 `json:"salary"`
	Layoffs      int   `json:"layoffs,omitempty"`
}

// BusinessState is a node of the business state machine.
type BusinessState string

const (
	BusinessIdea       BusinessState = "idea"
	BusinessLaunch     BusinessState = "launch"
	BusinessStruggling BusinessState = "struggling"
	BusinessBreakeven  BusinessState = "breakeven"
	BusinessGrowth     BusinessState = "growth"
	BusinessProfitable BusinessState = "profitable"
	BusinessScaling    BusinessState = "scaling"
	BusinessExit       BusinessState = "exit"
	BusinessFailed     BusinessState = "failed"
)

// Absorbing reports whether no transition may leave s.
func (s BusinessState) Absorbing() bool {
	return s == BusinessExit || s == BusinessFailed
}

// BusinessRecord is the character's business, if any.
type BusinessRecord struct {
	Name        string        `json:"name"`
	State       BusinessState `json:"state"`
	YearsActive int           `json:"years_active"`
	StartupCost int64         `json:"startup_cost"`
	Revenue     int64         `json:"revenue"`
	Expenses    int64         `json:"expenses"`
	LastProfit  int64         `json:"last_profit"`
	Valuation   int64         `json:"valuation"`
}

// AssetClass identifies an investment vehicle.
type AssetClass string

const (
	AssetSavings    AssetClass = "savings"
	AssetBonds      AssetClass = "bonds"
	AssetIndexFund  AssetClass = "index_fund"
	AssetStocks     AssetClass = "stocks"
	AssetRealEstate AssetClass = "real_estate"
	AssetCrypto     AssetClass = "crypto"
)

// Holding is one position in the portfolio.
//
// INVARIANT: Value is never negative.
type Holding struct {
	Contributed int64 `json:"contributed"`
	Value       int64 `json:"value"`
}

// Portfolio is the set of holdings keyed by asset class.
type Portfolio struct {
	Holdings        map[AssetClass]*Holding `json:"holdings"`
	Diversification float64                 `json:"diversification"`
}

// NewPortfolio returns an empty portfolio.
func NewPortfolio() Portfolio {
	return Portfolio{Holdings: make(map[AssetClass]*Holding)}
}

// TotalValue sums current value across holdings.
func (p *Portfolio) TotalValue() int64 {
	var total int64
	for _, h := range p.Holdings {
		total += h.Value
	}
	return total
}

// Classes returns held asset classes in sorted order.
func (p *Portfolio) Classes() []AssetClass {
	out := make([]AssetClass, 0, len(p.Holdings))
	for c := range p.Holdings {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Market holds one year's market-return modifiers.
//
// Returns are additive adjustments to each class's base return. Crash and
// Boom name the classes hit by that year's shocks (empty when none).
type Market struct {
	Returns   map[AssetClass]float64 `json:"returns"`
	Inflation float64                `json:"inflation"`
	Crash     AssetClass             `json:"crash,omitempty"`
	Boom      AssetClass             `json:"boom,omitempty"`
}

// Modifier returns the market modifier for class (0 when absent).
func (m Market) Modifier(class AssetClass) float64 {
	return m.Returns[class]
}
