// Package content holds the marketing copy for the prelaunch page. It is
// static data only; the page domain decides how sections are rendered and
// revealed.
package content

// Section identifiers, in page order. The reveal beacon accepts exactly these.
const (
	SectionHero       = "hero"
	SectionProblem    = "problem"
	SectionSolution   = "solution"
	SectionBenefits   = "benefits"
	SectionHowItWorks = "how-it-works"
	SectionCTA        = "cta"
	SectionFooter     = "footer"
)

// SectionIDs returns the ordered identifiers of every animated section.
func SectionIDs() []string {
	return []string{
		SectionHero,
		SectionProblem,
		SectionSolution,
		SectionBenefits,
		SectionHowItWorks,
		SectionCTA,
		SectionFooter,
	}
}

// IsSection reports whether id names a known page section.
func IsSection(id string) bool {
	for _, known := range SectionIDs() {
		if id == known {
			return true
		}
	}
	return false
}

type FeatureCard struct {
	Title string
	Body  string
	Icon  string
}

type Step struct {
	Number int
	Title  string
	Body   string
}

type Section struct {
	ID       string
	Eyebrow  string
	Heading  string
	Body     string
	Features []FeatureCard
	Benefits []string
	Steps    []Step
}

// Page is the full ordered section list rendered into the landing template.
func Page() []Section {
	return []Section{
		{
			ID:      SectionHero,
			Eyebrow: "Launching soon",
			Heading: "Feastline: ordering your restaurant will love",
			Body:    "Menus, orders, and payments in one place. Be first in line when we open the doors.",
		},
		{
			ID:      SectionProblem,
			Eyebrow: "The problem",
			Heading: "Running orders on paper and phone calls is costing you",
			Body:    "Missed tickets, wrong items, and no picture of what actually sells. Your team deserves better than sticky notes.",
			Features: []FeatureCard{
				{Title: "Lost orders", Body: "Phone and walk-in orders slip through the cracks during the rush.", Icon: "alert"},
				{Title: "No overview", Body: "You find out what sold yesterday, not what is selling right now.", Icon: "chart"},
				{Title: "Slow service", Body: "Staff retype the same order three times before it reaches the kitchen.", Icon: "clock"},
			},
		},
		{
			ID:      SectionSolution,
			Eyebrow: "The fix",
			Heading: "One screen from table to kitchen",
			Body:    "Feastline takes the order once and routes it everywhere it needs to go: kitchen display, receipt, and your numbers.",
			Features: []FeatureCard{
				{Title: "Digital menu", Body: "Update dishes and prices in seconds, no reprints.", Icon: "menu"},
				{Title: "Live orders", Body: "Every order lands on the kitchen display the moment it is placed.", Icon: "bolt"},
				{Title: "Built-in payments", Body: "Cards, wallets, and split bills without a second terminal.", Icon: "card"},
			},
		},
		{
			ID:      SectionBenefits,
			Eyebrow: "Why Feastline",
			Heading: "Built for the dinner rush",
			Benefits: []string{
				"Orders reach the kitchen in under a second",
				"Fewer mistakes, fewer comped meals",
				"See your best sellers while service is still running",
				"Works on the tablets you already own",
			},
		},
		{
			ID:      SectionHowItWorks,
			Eyebrow: "How it works",
			Heading: "Up and running in an afternoon",
			Steps: []Step{
				{Number: 1, Title: "Add your menu", Body: "Import or type it in. Photos optional, appetite guaranteed."},
				{Number: 2, Title: "Connect your floor", Body: "Tables, counters, and delivery channels in one view."},
				{Number: 3, Title: "Take orders", Body: "Staff or guests order; the kitchen sees it instantly."},
			},
		},
		{
			ID:      SectionCTA,
			Eyebrow: "Get early access",
			Heading: "Join the waitlist",
			Body:    "Leave your details and we will invite you as soon as your region opens.",
		},
		{
			ID:   SectionFooter,
			Body: "Feastline. Made with appetite.",
		},
	}
}
