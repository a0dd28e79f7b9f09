package features

import (
	"context"
	"fmt"
	"testing"

	"github.com/cucumber/godog"

	"github.com/tickforge/simcore/action"
	"github.com/tickforge/simcore/arena"
)

var selectorPriorities = map[string]action.Priority{
	"Highest": action.Highest,
	"High":    action.High,
	"Normal":  action.Normal,
	"Lowest":  action.Lowest,
}

// exclusivePair is a CategoryRules that treats exactly one named pair of
// categories (in either order) as mutually exclusive, plus the
// mandatory identity case.
type exclusivePair struct {
	a, b action.Category
}

func (r exclusivePair) AreExclusive(x, y action.Category) bool {
	if x == y {
		return true
	}
	return (x == r.a && y == r.b) || (x == r.b && y == r.a)
}

type selectorBDDContext struct {
	selector *action.Selector
	entity   arena.AnyHandle
	result   action.SelectionResult
	ran      bool
}

func (c *selectorBDDContext) reset() {
	c.selector = nil
	a := arena.New[int](1)
	h, _ := a.Allocate()
	c.entity = h.Any()
	c.result = action.SelectionResult{}
	c.ran = false
}

func (c *selectorBDDContext) aSelectorWithIdentityOnlyCategoryRules() error {
	c.selector = action.NewSelector(action.IdentityOnly)
	return nil
}

func (c *selectorBDDContext) aSelectorWithCategoriesMutuallyExclusive(catA, catB string) error {
	c.selector = action.NewSelector(exclusivePair{a: action.Category(catA), b: action.Category(catB)})
	return nil
}

func (c *selectorBDDContext) aJudgmentInCategoryWithPriorityThatAlwaysTriggers(id, category, priority string) error {
	p, ok := selectorPriorities[priority]
	if !ok {
		return fmt.Errorf("unknown priority %q", priority)
	}
	j := action.NewJudgment(action.ActionID(id), action.Category(category), p, action.Always(), nil)
	return c.selector.Register(j)
}

func (c *selectorBDDContext) iSelectForTheEntity() error {
	c.result = c.selector.Select(c.entity, nil, nil, 1)
	c.ran = true
	return nil
}

func (c *selectorBDDContext) judgmentIsSelectedForCategory(id, category string) error {
	winner, ok := c.result.Winner(action.Category(category))
	if !ok || string(winner.ID()) != id {
		return fmt.Errorf("expected %q to win category %q, got %v (ok=%v)", id, category, winner, ok)
	}
	return nil
}

func (c *selectorBDDContext) judgmentHasOutcome(id, outcome string) error {
	for _, e := range c.result.Evaluations {
		if string(e.Judgment.ID()) == id {
			if e.Outcome.String() != outcome {
				return fmt.Errorf("expected %q outcome %q, got %q", id, outcome, e.Outcome.String())
			}
			return nil
		}
	}
	return fmt.Errorf("judgment %q was never evaluated", id)
}

func InitializeSelectorScenario(ctx *godog.ScenarioContext) {
	bdd := &selectorBDDContext{}

	ctx.Before(func(c context.Context, sc *godog.Scenario) (context.Context, error) {
		bdd.reset()
		return c, nil
	})

	ctx.Step(`^a selector with identity-only category rules$`, bdd.aSelectorWithIdentityOnlyCategoryRules)
	ctx.Step(`^a selector with "([^"]*)" and "([^"]*)" mutually exclusive$`, bdd.aSelectorWithCategoriesMutuallyExclusive)
	ctx.Step(`^a judgment "([^"]*)" in category "([^"]*)" with priority "([^"]*)" that always triggers$`, bdd.aJudgmentInCategoryWithPriorityThatAlwaysTriggers)
	ctx.Step(`^I select for the entity$`, bdd.iSelectForTheEntity)
	ctx.Step(`^judgment "([^"]*)" is selected for category "([^"]*)"$`, bdd.judgmentIsSelectedForCategory)
	ctx.Step(`^judgment "([^"]*)" has outcome "([^"]*)"$`, bdd.judgmentHasOutcome)
}

func TestSelectorFeature(t *testing.T) {
	suite := godog.TestSuite{
		ScenarioInitializer: InitializeSelectorScenario,
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"selector.feature"},
			TestingT: t,
			Strict:   true,
		},
	}

	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run selector feature")
	}
}
