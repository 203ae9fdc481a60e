package urgency

type ExponentialConfig struct {
	BaseScore  float64 `yaml:"base_score" toml:"base_score"`
	Multiplier float64 `yaml:"multiplier" toml:"multiplier"`
}

type PendingInvoiceConfig struct {
	BaseScore float64 `yaml:"base_score" toml:"base_score"`
	// DefaultTermDays applies when the invoice's own payment window cannot be derived.
	DefaultTermDays int `yaml:"default_term_days" toml:"default_term_days"`
	// MinRatio is the share of BaseScore awarded the day the window opens.
	MinRatio float64 `yaml:"min_ratio" toml:"min_ratio"`
}

type RenewalConfig struct {
	BaseScore  float64 `yaml:"base_score" toml:"base_score"`
	Multiplier float64 `yaml:"multiplier" toml:"multiplier"`
	WindowDays int     `yaml:"window_days" toml:"window_days"`
}

type ActionItemConfig struct {
	BaseScore     float64 `yaml:"base_score" toml:"base_score"`
	DueWithinDays int     `yaml:"due_within_days" toml:"due_within_days"`
}

type Config struct {
	OverdueInvoice    ExponentialConfig    `yaml:"overdue_invoice" toml:"overdue_invoice"`
	PendingInvoice    PendingInvoiceConfig `yaml:"pending_invoice" toml:"pending_invoice"`
	DomainRenewal     RenewalConfig        `yaml:"domain_renewal" toml:"domain_renewal"`
	HostingRenewal    RenewalConfig        `yaml:"hosting_renewal" toml:"hosting_renewal"`
	AISubscription    RenewalConfig        `yaml:"ai_subscription" toml:"ai_subscription"`
	ActionItem        ActionItemConfig     `yaml:"action_item" toml:"action_item"`
	AllClearThreshold int                  `yaml:"all_clear_threshold" toml:"all_clear_threshold"`
}

const DefaultAllClearThreshold = 200

func DefaultConfig() Config {
	return Config{
		OverdueInvoice: ExponentialConfig{BaseScore: 1000, Multiplier: 1.2},
		PendingInvoice: PendingInvoiceConfig{BaseScore: 500, DefaultTermDays: 30, MinRatio: 0.1},
		DomainRenewal:  RenewalConfig{BaseScore: 300, Multiplier: 1.1, WindowDays: 30},
		HostingRenewal: RenewalConfig{BaseScore: 300, Multiplier: 1.1, WindowDays: 30},
		AISubscription: RenewalConfig{BaseScore: 150, Multiplier: 1.2, WindowDays: 7},
		ActionItem:     ActionItemConfig{BaseScore: 250, DueWithinDays: 1},

		AllClearThreshold: DefaultAllClearThreshold,
	}
}

// Normalize fills zero or out-of-range values from DefaultConfig, so a
// partial profile only overrides what it names.
func (c Config) Normalize() Config {
	out := c
	def := DefaultConfig()

	if out.OverdueInvoice.BaseScore <= 0 {
		out.OverdueInvoice.BaseScore = def.OverdueInvoice.BaseScore
	}
	if out.OverdueInvoice.Multiplier < 1 {
		out.OverdueInvoice.Multiplier = def.OverdueInvoice.Multiplier
	}

	if out.PendingInvoice.BaseScore <= 0 {
		out.PendingInvoice.BaseScore = def.PendingInvoice.BaseScore
	}
	if out.PendingInvoice.DefaultTermDays <= 0 {
		out.PendingInvoice.DefaultTermDays = def.PendingInvoice.DefaultTermDays
	}
	if out.PendingInvoice.MinRatio <= 0 || out.PendingInvoice.MinRatio > 1 {
		out.PendingInvoice.MinRatio = def.PendingInvoice.MinRatio
	}

	out.DomainRenewal = out.DomainRenewal.normalize(def.DomainRenewal)
	out.HostingRenewal = out.HostingRenewal.normalize(def.HostingRenewal)
	out.AISubscription = out.AISubscription.normalize(def.AISubscription)

	if out.ActionItem.BaseScore <= 0 {
		out.ActionItem.BaseScore = def.ActionItem.BaseScore
	}
	if out.ActionItem.DueWithinDays <= 0 {
		out.ActionItem.DueWithinDays = def.ActionItem.DueWithinDays
	}

	if out.AllClearThreshold <= 0 {
		out.AllClearThreshold = def.AllClearThreshold
	}
	return out
}

func (c RenewalConfig) normalize(def RenewalConfig) RenewalConfig {
	out := c
	if out.BaseScore <= 0 {
		out.BaseScore = def.BaseScore
	}
	if out.Multiplier < 1 {
		out.Multiplier = def.Multiplier
	}
	if out.WindowDays <= 0 {
		out.WindowDays = def.WindowDays
	}
	return out
}
