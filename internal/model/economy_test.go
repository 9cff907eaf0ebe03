package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEconomy_MinorHasNoExpenses(t *testing.T) {
	c := NewCharacter("Kid", 12)
	c.Money = 50

	report := Economy{}.ApplyYearlyUpdate(c, Market{Inflation: 0.05})

	assert.Equal(t, int64(0), report.Expenses)
	assert.Equal(t, int64(50), c.Money)
	assert.True(t, report.Alive)
}

func TestEconomy_AdultIncomeAndExpenses(t *testing.T) {
	c := NewCharacter("Ada", 35)
	c.Career = CareerRecord{Employed: true, Salary: 40000}
	c.Relations.Children = []*Bond{
		{ID: "c1", Role: RoleChild, Alive: true},
		{ID: "c2", Role: RoleChild, Alive: false},
	}
	c.Health = 30

	report := Economy{}.ApplyYearlyUpdate(c, Market{Inflation: 0.10})

	// (12000 + 3000 + 2000) * 1.10
	assert.Equal(t, int64(40000), report.Income)
	assert.Equal(t, int64(18700), report.Expenses)
	assert.Equal(t, int64(21300), c.Money)
	assert.Equal(t, int64(21300), report.NetWorth)
}

func TestEconomy_StudentsHaveNoExpenses(t *testing.T) {
	c := NewCharacter("Ada", 20)
	c.Education = EducationRecord{Stage: "bachelor", Enrolled: true}

	report := Economy{}.ApplyYearlyUpdate(c, Market{})

	assert.Equal(t, int64(0), report.Expenses)
	assert.Equal(t, int64(0), c.Money)
}

func TestEconomy_RetireePension(t *testing.T) {
	c := NewCharacter("Ada", 70)

	report := Economy{}.ApplyYearlyUpdate(c, Market{})

	assert.Equal(t, int64(Pension), report.Income)
	assert.Equal(t, int64(BaseLivingCost), report.Expenses)
	assert.Equal(t, int64(Pension-BaseLivingCost), c.Money)
}

func TestNetWorth_IncludesPortfolioAndLiveBusiness(t *testing.T) {
	c := NewCharacter("Ada", 35)
	c.Money = 1000
	c.Portfolio.Holdings[AssetBonds] = &Holding{Contributed: 500, Value: 700}
	c.Business = &BusinessRecord{State: BusinessGrowth, Valuation: 10000}

	assert.Equal(t, int64(11700), c.NetWorth())

	c.Business.State = BusinessFailed
	assert.Equal(t, int64(1700), c.NetWorth())
}
