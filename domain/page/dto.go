package page

import (
	"github.com/feastline/prelaunch/internal/content"
	"github.com/feastline/prelaunch/internal/countdown"
)

// SectionView is one landing page section plus its per-visitor reveal state.
type SectionView struct {
	ID       string
	Label    string
	Eyebrow  string
	Heading  string
	Body     string
	Features []content.FeatureCard
	Benefits []string
	Steps    []content.Step
	Revealed bool
}

// PageView is everything the landing template needs for one render.
type PageView struct {
	Countdown      countdown.Breakdown
	LaunchAtMillis int64
	Sections       []SectionView
	Year           int
}

type CountdownResponse struct {
	countdown.Breakdown
	LaunchAt string `json:"launch_at"`
}

type SeenRequest struct {
	Section string `json:"section" binding:"required,max=64"`
}

type SeenResponse struct {
	Section   string `json:"section"`
	FirstView bool   `json:"first_view"`
}
