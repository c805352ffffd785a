package payment

import (
	"strings"
	"time"
)

// Plan is a purchasable promotion window.
type Plan struct {
	Key   string  `json:"key"`
	Label string  `json:"label"`
	Price float64 `json:"price"`
	Days  int     `json:"days"`
}

// Window is the promotion length.
func (p Plan) Window() time.Duration {
	return time.Duration(p.Days) * 24 * time.Hour
}

// DefaultPlanKey is used when the client names no plan.
const DefaultPlanKey = "featured7"

var plans = map[string]Plan{
	"featured7":  {Key: "featured7", Label: "Featured listing - 7 days", Price: 9.99, Days: 7},
	"featured14": {Key: "featured14", Label: "Featured listing - 14 days", Price: 16.99, Days: 14},
	"featured30": {Key: "featured30", Label: "Featured listing - 30 days", Price: 29.99, Days: 30},
}

// SelectPlan resolves a plan key. An empty key selects the baseline plan; any
// other unrecognized key is rejected.
func SelectPlan(key string) (Plan, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return plans[DefaultPlanKey], nil
	}
	p, ok := plans[key]
	if !ok {
		return Plan{}, ErrUnknownPlan
	}
	return p, nil
}

// Plans lists the plan table ordered by length.
func Plans() []Plan {
	return []Plan{plans["featured7"], plans["featured14"], plans["featured30"]}
}
