package page

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/feastline/prelaunch/internal/content"
	"github.com/feastline/prelaunch/internal/countdown"
	"github.com/feastline/prelaunch/internal/log"
	"github.com/feastline/prelaunch/pkg/constants"
	apperrors "github.com/feastline/prelaunch/pkg/errors"
)

// revealTTL bounds how long a visitor's reveal state is remembered. After it
// lapses the sections simply animate again on the next visit.
const revealTTL = 30 * 24 * time.Hour

// RevealStore is the persistence port for per-visitor reveal state. The Redis
// cache satisfies it; when absent an in-memory map takes over.
type RevealStore interface {
	Get(ctx context.Context, key string) (string, error)
	SetIfAbsent(ctx context.Context, key string, value string, ttl time.Duration) (bool, error)
}

type PageService interface {
	// BuildView assembles the landing page for one visitor at one instant.
	BuildView(ctx context.Context, visitorID string, now time.Time) *PageView

	// Countdown returns the current breakdown of time left until launch.
	Countdown(now time.Time) *CountdownResponse

	// MarkSeen records that a visitor's browser played a section's reveal
	// animation. The first call per visitor and section wins; repeats are
	// acknowledged but change nothing.
	MarkSeen(ctx context.Context, visitorID, sectionID string) (*SeenResponse, error)
}

type pageService struct {
	logger   *log.Logger
	launchAt time.Time
	store    RevealStore

	mu       sync.Mutex
	fallback map[string]struct{}

	sectionViews *prometheus.CounterVec
}

func NewPageService(logger *log.Logger, launchAt time.Time, store RevealStore, registerer prometheus.Registerer) PageService {
	s := &pageService{
		logger:   logger,
		launchAt: launchAt,
		store:    store,
		fallback: make(map[string]struct{}),
	}

	if registerer != nil {
		s.sectionViews = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "landing_section_first_views_total",
				Help: "First-time reveals of landing page sections.",
			},
			[]string{"section"},
		)
		registerer.MustRegister(s.sectionViews)
	}

	return s
}

var titleCaser = cases.Title(language.English)

// sectionLabel turns an identifier like "how-it-works" into "How It Works".
func sectionLabel(id string) string {
	return titleCaser.String(strings.ReplaceAll(id, "-", " "))
}

func (s *pageService) BuildView(ctx context.Context, visitorID string, now time.Time) *PageView {
	sections := content.Page()
	views := make([]SectionView, 0, len(sections))

	for _, section := range sections {
		views = append(views, SectionView{
			ID:       section.ID,
			Label:    sectionLabel(section.ID),
			Eyebrow:  section.Eyebrow,
			Heading:  section.Heading,
			Body:     section.Body,
			Features: section.Features,
			Benefits: section.Benefits,
			Steps:    section.Steps,
			Revealed: s.hasSeen(ctx, visitorID, section.ID),
		})
	}

	return &PageView{
		Countdown:      countdown.Until(s.launchAt, now),
		LaunchAtMillis: s.launchAt.UnixMilli(),
		Sections:       views,
		Year:           now.Year(),
	}
}

func (s *pageService) Countdown(now time.Time) *CountdownResponse {
	return &CountdownResponse{
		Breakdown: countdown.Until(s.launchAt, now),
		LaunchAt:  s.launchAt.UTC().Format(constants.RFC3339DateTimeFormat),
	}
}

func (s *pageService) MarkSeen(ctx context.Context, visitorID, sectionID string) (*SeenResponse, error) {
	logger := log.GetLoggerInstanceFromContext(ctx, s.logger)

	if !content.IsSection(sectionID) {
		logger.Error("Reveal beacon for unknown section", "section", sectionID)
		return nil, apperrors.NewInvalidRequestError(fmt.Sprintf("unknown section %q", sectionID), nil)
	}

	if visitorID == "" {
		return nil, apperrors.NewInvalidRequestError("visitor identity is missing", nil)
	}

	first := s.markSeen(ctx, visitorID, sectionID)

	if first && s.sectionViews != nil {
		s.sectionViews.WithLabelValues(sectionID).Inc()
	}

	return &SeenResponse{Section: sectionID, FirstView: first}, nil
}

func revealKey(visitorID, sectionID string) string {
	return fmt.Sprintf("reveal:%s:%s", visitorID, sectionID)
}

func (s *pageService) hasSeen(ctx context.Context, visitorID, sectionID string) bool {
	if visitorID == "" {
		return false
	}

	key := revealKey(visitorID, sectionID)

	if s.store != nil {
		value, err := s.store.Get(ctx, key)
		if err != nil {
			s.logger.Error("Reveal state lookup failed", "key", key, "error", err)
			return false
		}
		return value != ""
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	_, seen := s.fallback[key]
	return seen
}

func (s *pageService) markSeen(ctx context.Context, visitorID, sectionID string) bool {
	key := revealKey(visitorID, sectionID)

	if s.store != nil {
		first, err := s.store.SetIfAbsent(ctx, key, "1", revealTTL)
		if err != nil {
			// Degrade to the in-memory map rather than replaying animations on
			// every cache hiccup.
			s.logger.Error("Reveal state write failed", "key", key, "error", err)
		} else {
			return first
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, seen := s.fallback[key]; seen {
		return false
	}
	s.fallback[key] = struct{}{}
	return true
}
