// Package attention combines the urgency feed and the financial vitals into
// the single view the dashboard, worker and CLI render.
package attention

import (
	"time"

	"github.com/nbkdev/control-center/internal/core/calendar"
	"github.com/nbkdev/control-center/internal/core/urgency"
	"github.com/nbkdev/control-center/internal/core/vitals"
)

type Snapshot struct {
	AsOf      string         `json:"as_of"`
	Items     []urgency.Item `json:"items"`
	Top       *urgency.Item  `json:"top"`
	AllClear  bool           `json:"all_clear"`
	Threshold int            `json:"threshold"`
	Vitals    vitals.Vitals  `json:"vitals"`
}

func Build(in urgency.Input, today time.Time, cfg urgency.Config) Snapshot {
	items := urgency.ComputeAllItems(in, today, cfg)
	return Snapshot{
		AsOf:      calendar.Format(calendar.Day(today)),
		Items:     items,
		Top:       urgency.TopItem(items),
		AllClear:  urgency.IsAllClear(items, cfg.AllClearThreshold),
		Threshold: cfg.AllClearThreshold,
		Vitals:    vitals.Compute(in.Invoices, in.Subscriptions, today),
	}
}
