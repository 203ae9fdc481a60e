package urgency

import "math"

// maxScore keeps long-overdue exponentials representable as int.
const maxScore = 1 << 53

func roundScore(v float64) int {
	if math.IsNaN(v) || v <= 0 {
		return 0
	}
	if v >= maxScore {
		return maxScore
	}
	return int(math.Round(v))
}

// CalculateOverdueInvoiceScore grows exponentially with days overdue so the
// oldest debts dominate the feed.
func CalculateOverdueInvoiceScore(daysOverdue int, cfg ExponentialConfig) int {
	if daysOverdue <= 0 {
		return 0
	}
	return roundScore(cfg.BaseScore * math.Pow(cfg.Multiplier, float64(daysOverdue)))
}

// CalculatePendingInvoiceScore interpolates linearly from MinRatio to 100% of
// the base score as the invoice moves through its payment window.
func CalculatePendingInvoiceScore(daysUntilDue, totalDaysGiven int, cfg PendingInvoiceConfig) int {
	if daysUntilDue <= 0 {
		return 0
	}
	if totalDaysGiven <= 0 {
		totalDaysGiven = cfg.DefaultTermDays
	}
	progress := 1 - float64(daysUntilDue)/float64(totalDaysGiven)
	progress = math.Max(0, math.Min(1, progress))
	return roundScore(cfg.BaseScore * (cfg.MinRatio + (1-cfg.MinRatio)*progress))
}

// CalculateRenewalScore is shared by domain, hosting and AI subscription
// renewals. Past-due items keep compounding beyond the window.
func CalculateRenewalScore(daysLeft int, cfg RenewalConfig) int {
	if daysLeft > cfg.WindowDays {
		return 0
	}
	if daysLeft < 0 {
		return roundScore(cfg.BaseScore * math.Pow(cfg.Multiplier, float64(-daysLeft+cfg.WindowDays)))
	}
	return roundScore(cfg.BaseScore * math.Pow(cfg.Multiplier, float64(cfg.WindowDays-daysLeft)))
}

// CalculateActionItemScore is binary: an open task due within the configured
// horizon scores the base, however long it has been overdue.
func CalculateActionItemScore(completed bool, daysUntilDue int, cfg ActionItemConfig) int {
	if completed || daysUntilDue > cfg.DueWithinDays {
		return 0
	}
	return roundScore(cfg.BaseScore)
}
