package pois

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/bnema/geowhisper/internal/application"
	"github.com/bnema/geowhisper/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

const proximityBarWidth = 16

// View is what a single render shows. Origin, when set, orders the POIs by
// distance and draws how close each one is relative to RadiusMeters.
type View struct {
	Title        string
	Pois         []domain.PointOfInterest
	Origin       *domain.Coordinate
	RadiusMeters float64
	Status       *application.EngineStatus
}

type RenderOptions struct {
	Now time.Time
}

func renderView(view View, opts RenderOptions, s styles) string {
	title := view.Title
	if title == "" {
		title = "Points of interest"
	}

	lines := []string{
		s.title.Render(title),
		s.header.Render(fmt.Sprintf("pois: %d (visible %d)", len(view.Pois), countVisible(view.Pois))),
	}

	if view.Status != nil {
		lines = append(lines, s.section.Render(renderStatus(*view.Status, opts, s)))
	}

	if len(view.Pois) == 0 {
		lines = append(lines, s.empty.Render("No points of interest."))
		return lipgloss.JoinVertical(lipgloss.Left, lines...)
	}

	for _, poi := range orderPois(view.Pois, view.Origin) {
		lines = append(lines, s.section.Render(renderPoi(poi, view, s)))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func renderPoi(poi domain.PointOfInterest, view View, s styles) string {
	titleParts := []string{s.name.Render(poi.Name), sourceTag(poi.Source, s)}
	if !poi.IsVisible {
		titleParts = append(titleParts, s.hidden.Render("[hidden]"))
	}

	parts := []string{
		strings.Join(titleParts, " "),
		s.detail.Render(fmt.Sprintf("id: %s", poi.ID)),
		s.detail.Render(fmt.Sprintf("category: %s  at %s", poi.Category, poi.Coordinate)),
	}
	if poi.Address != "" {
		parts = append(parts, s.detail.Render(fmt.Sprintf("address: %s", poi.Address)))
	}
	if view.Origin != nil {
		parts = append(parts, distanceLine(domain.DistanceMeters(*view.Origin, poi.Coordinate), view.RadiusMeters, s))
	}

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func renderStatus(status application.EngineStatus, opts RenderOptions, s styles) string {
	parts := []string{s.detail.Render(fmt.Sprintf("sync: %s", status.State))}

	if status.LastLocation != nil {
		parts = append(parts, s.detail.Render(fmt.Sprintf("last location: %s", status.LastLocation.Coordinate)))
	}
	if status.FetchCount > 0 {
		parts = append(parts, s.detail.Render(fmt.Sprintf("last fetch: %d places, %s", status.LastFetchCount, formatRelative(status.LastFetchAt, opts.Now))))
	}
	if status.LastError != nil {
		parts = append(parts, s.warning.Render(fmt.Sprintf("last error: %v", status.LastError)))
	}
	if status.PermissionDenied {
		parts = append(parts, s.warning.Render("location permission denied"))
	}

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func sourceTag(source domain.PoiSource, s styles) string {
	if source == domain.PoiSourceManual {
		return s.manual.Render("[manual]")
	}

	return s.remote.Render("[" + string(source) + "]")
}

func distanceLine(meters, radius float64, s styles) string {
	label := s.detail.Render(fmt.Sprintf("distance: %s", formatDistance(meters)))
	if radius <= 0 {
		return label
	}

	closeness := clampFraction(1 - meters/radius)
	meta := lipgloss.NewStyle().Foreground(interpolateColor(closeness, 0, 1)).Render(fmt.Sprintf("%3.0f%% of radius", 100*meters/radius))

	return lipgloss.JoinHorizontal(lipgloss.Top, label, " ", renderProximityBar(closeness, proximityBarWidth, s), " ", meta)
}

func renderProximityBar(closeness float64, width int, s styles) string {
	if width <= 0 {
		return ""
	}

	filled := int(math.Round(float64(width) * clampFraction(closeness)))
	empty := width - filled

	return lipgloss.JoinHorizontal(
		lipgloss.Top,
		s.barBracket.Render("["),
		s.barFill.Render(strings.Repeat("=", filled)),
		s.barEmpty.Render(strings.Repeat("-", empty)),
		s.barBracket.Render("]"),
	)
}

func orderPois(pois []domain.PointOfInterest, origin *domain.Coordinate) []domain.PointOfInterest {
	ordered := append([]domain.PointOfInterest(nil), pois...)
	if origin == nil {
		return ordered
	}

	sort.SliceStable(ordered, func(i, j int) bool {
		return domain.DistanceMeters(*origin, ordered[i].Coordinate) < domain.DistanceMeters(*origin, ordered[j].Coordinate)
	})

	return ordered
}

func countVisible(pois []domain.PointOfInterest) int {
	visible := 0
	for _, poi := range pois {
		if poi.IsVisible {
			visible++
		}
	}

	return visible
}

func formatDistance(meters float64) string {
	if meters < 1000 {
		return fmt.Sprintf("%.0f m", meters)
	}

	return fmt.Sprintf("%.2f km", meters/1000)
}

func formatRelative(at, now time.Time) string {
	if at.IsZero() {
		return "never"
	}
	if now.IsZero() {
		return at.Format(time.RFC3339)
	}

	elapsed := now.Sub(at)
	switch {
	case elapsed < time.Minute:
		return "just now"
	case elapsed < time.Hour:
		minutes := int(elapsed.Minutes())
		if minutes == 1 {
			return "1 minute ago"
		}
		return fmt.Sprintf("%d minutes ago", minutes)
	default:
		return "at " + at.Format("15:04 on 02 Jan")
	}
}

func clampFraction(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// interpolateColor fades from grey (240) at min to bright white (255) at max.
func interpolateColor(value, min, max float64) lipgloss.Color {
	if max == min {
		return lipgloss.Color("255")
	}

	normalized := clampFraction((value - min) / (max - min))
	return lipgloss.Color(fmt.Sprintf("%d", int(240+15*normalized)))
}
