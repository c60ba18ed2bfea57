package geoapify

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/bnema/geowhisper/internal/domain"
	"github.com/bnema/geowhisper/internal/ports"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

const (
	DefaultBaseURL       = "https://api.geoapify.com/v2"
	DefaultLimit         = 50
	DefaultCategoryDelay = 100 * time.Millisecond
	DefaultTimeout       = 15 * time.Second

	placesPath         = "/places"
	maxPerCategory     = 20
	maxResponseBytes   = 4 << 20
	maxErrorBodyBytes  = 512
	unnamedPlace       = "Unnamed Place"
	pingCategory       = "commercial.supermarket"
	pingRadiusMeters   = 1000
	placeIDProperty    = "place_id"
	nameProperty       = "name"
	formattedProperty  = "formatted"
	categoriesProperty = "categories"
	acceptJSON         = "application/json"
)

// pingCenter is a well covered spot (Munich) used to check the API key.
var pingCenter = domain.Coordinate{Latitude: 48.1351, Longitude: 11.5820}

type Config struct {
	BaseURL       string
	APIKey        string
	Limit         int
	CategoryDelay time.Duration
	// Supported restricts which place categories are kept. Defaults to
	// domain.SupportedCategories.
	Supported []string
	// KeySource is asked for the entry KeyName the first time a request
	// needs a key and APIKey is empty.
	KeySource  ports.SecretSource
	KeyName    string
	HTTPClient *http.Client
	Clock      ports.Clock
	Logger     *slog.Logger
}

func DefaultConfig() Config {
	return Config{
		BaseURL:       DefaultBaseURL,
		Limit:         DefaultLimit,
		CategoryDelay: DefaultCategoryDelay,
	}
}

// Client queries the GeoApify places API one category at a time.
type Client struct {
	baseURL       string
	apiKey        string
	keySource     ports.SecretSource
	keyName       string
	keyMu         sync.Mutex
	limit         int
	categoryDelay time.Duration
	supported     []string
	httpClient    *http.Client
	clock         ports.Clock
	logger        *slog.Logger
}

var _ ports.PlacesClient = (*Client)(nil)

func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Limit <= 0 {
		cfg.Limit = DefaultLimit
	}
	if len(cfg.Supported) == 0 {
		cfg.Supported = domain.SupportedCategories
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Timeout: DefaultTimeout}
	}
	if cfg.Clock == nil {
		cfg.Clock = ports.SystemClock{}
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	return &Client{
		baseURL:       strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:        strings.TrimSpace(cfg.APIKey),
		keySource:     cfg.KeySource,
		keyName:       strings.TrimSpace(cfg.KeyName),
		limit:         cfg.Limit,
		categoryDelay: cfg.CategoryDelay,
		supported:     append([]string(nil), cfg.Supported...),
		httpClient:    cfg.HTTPClient,
		clock:         cfg.Clock,
		logger:        cfg.Logger,
	}
}

func (c *Client) SupportedCategories() []string {
	return append([]string(nil), c.supported...)
}

// FetchNearby returns the deduplicated remote POIs inside the square around
// center. A category whose request fails is logged and skipped, so the result
// may be empty without an error.
func (c *Client) FetchNearby(ctx context.Context, center domain.Coordinate, radiusMeters float64, categories []string) ([]domain.PointOfInterest, error) {
	key, err := c.checkRequest(ctx, center, radiusMeters)
	if err != nil {
		return nil, err
	}
	categories = domain.NormalizeCategories(categories)
	if len(categories) == 0 {
		return nil, domain.ErrNoCategories
	}

	bound := domain.BoundingBox(center, radiusMeters)
	limit := min(c.limit, maxPerCategory)

	var all []domain.PointOfInterest
	for i, category := range categories {
		if i > 0 {
			if err := c.pause(ctx); err != nil {
				return nil, err
			}
		}

		pois, err := c.fetchCategory(ctx, key, category, bound, limit)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			c.logger.Warn("places category failed", "category", category, "err", err)
			continue
		}
		c.logger.Debug("places category fetched", "category", category, "count", len(pois))
		all = append(all, pois...)
	}

	unique := domain.DedupeByRemoteID(all)
	c.logger.Info("places fetched", "count", len(unique), "before_dedup", len(all))
	return unique, nil
}

// Ping issues a single small request and reports any failure, unlike
// FetchNearby which tolerates per-category errors.
func (c *Client) Ping(ctx context.Context) error {
	key, err := c.checkRequest(ctx, pingCenter, pingRadiusMeters)
	if err != nil {
		return err
	}

	_, err = c.fetchCategory(ctx, key, pingCategory, domain.BoundingBox(pingCenter, pingRadiusMeters), 1)
	return err
}

func (c *Client) checkRequest(ctx context.Context, center domain.Coordinate, radiusMeters float64) (string, error) {
	key, err := c.key(ctx)
	if err != nil {
		return "", err
	}
	if key == "" {
		return "", domain.ErrMissingAPIKey
	}
	if radiusMeters <= 0 {
		return "", fmt.Errorf("search radius must be positive, got %v", radiusMeters)
	}

	return key, center.Validate()
}

// key returns the API key, looking it up in the secret source once when
// none was configured directly.
func (c *Client) key(ctx context.Context) (string, error) {
	c.keyMu.Lock()
	defer c.keyMu.Unlock()

	if c.apiKey != "" || c.keySource == nil || c.keyName == "" {
		return c.apiKey, nil
	}

	secret, err := c.keySource.Lookup(ctx, c.keyName)
	if err != nil {
		return "", fmt.Errorf("resolve places api key: %w", err)
	}
	c.apiKey = strings.TrimSpace(secret)

	return c.apiKey, nil
}

func (c *Client) fetchCategory(ctx context.Context, key, category string, bound orb.Bound, limit int) ([]domain.PointOfInterest, error) {
	endpoint, err := c.placesURL(key, category, bound, limit)
	if err != nil {
		return nil, err
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("create places request: %w", err)
	}
	request.Header.Set("Accept", acceptJSON)

	response, err := c.httpClient.Do(request)
	if err != nil {
		return nil, &domain.NetworkError{Err: err}
	}
	defer func() { _ = response.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(response.Body, maxResponseBytes))
	if err != nil {
		return nil, &domain.NetworkError{Err: fmt.Errorf("read places response: %w", err)}
	}
	if response.StatusCode < http.StatusOK || response.StatusCode >= http.StatusMultipleChoices {
		return nil, &domain.UpstreamError{Status: response.StatusCode, Body: truncate(strings.TrimSpace(string(body)), maxErrorBodyBytes)}
	}

	collection, err := geojson.UnmarshalFeatureCollection(body)
	if err != nil {
		return nil, fmt.Errorf("decode places response: %w", err)
	}

	return c.toPois(collection.Features), nil
}

func (c *Client) placesURL(key, category string, bound orb.Bound, limit int) (string, error) {
	endpoint, err := url.Parse(c.baseURL + placesPath)
	if err != nil {
		return "", fmt.Errorf("parse places url: %w", err)
	}

	rect := strings.Join([]string{
		formatDegrees(bound.Min.Lon()),
		formatDegrees(bound.Min.Lat()),
		formatDegrees(bound.Max.Lon()),
		formatDegrees(bound.Max.Lat()),
	}, ",")

	query := url.Values{}
	query.Set("categories", category)
	query.Set("filter", "rect:"+rect)
	query.Set("limit", strconv.Itoa(limit))
	query.Set("apiKey", key)
	endpoint.RawQuery = query.Encode()

	return endpoint.String(), nil
}

func (c *Client) toPois(features []*geojson.Feature) []domain.PointOfInterest {
	now := c.clock.Now()
	pois := make([]domain.PointOfInterest, 0, len(features))
	for _, feature := range features {
		poi, ok := c.toPoi(feature, now)
		if !ok {
			continue
		}
		pois = append(pois, poi)
	}

	return pois
}

func (c *Client) toPoi(feature *geojson.Feature, now time.Time) (domain.PointOfInterest, bool) {
	if feature == nil || feature.Geometry == nil {
		return domain.PointOfInterest{}, false
	}

	category, ok := domain.MatchSupportedCategory(stringList(feature.Properties[categoriesProperty]), c.supported)
	if !ok {
		return domain.PointOfInterest{}, false
	}

	remoteID := feature.Properties.MustString(placeIDProperty, "")
	if remoteID == "" {
		remoteID = featureID(feature.ID)
	}
	if remoteID == "" {
		return domain.PointOfInterest{}, false
	}

	point, ok := feature.Geometry.(orb.Point)
	if !ok {
		point = feature.Geometry.Bound().Center()
	}

	formatted := feature.Properties.MustString(formattedProperty, "")
	name := feature.Properties.MustString(nameProperty, "")
	if name == "" {
		name = formatted
	}
	if name == "" {
		name = unnamedPlace
	}

	poi := domain.PointOfInterest{
		ID:         domain.RemotePoiID(remoteID),
		Name:       name,
		Coordinate: domain.CoordinateFromPoint(point),
		Category:   category,
		IsVisible:  true,
		CreatedAt:  now,
		Source:     domain.PoiSourceRemote,
		Address:    formatted,
		RemoteID:   remoteID,
	}
	if err := poi.Validate(); err != nil {
		c.logger.Debug("skipping invalid place", "remote_id", remoteID, "err", err)
		return domain.PointOfInterest{}, false
	}

	return poi, true
}

func (c *Client) pause(ctx context.Context) error {
	if c.categoryDelay <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(c.categoryDelay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func stringList(raw any) []string {
	values, ok := raw.([]any)
	if !ok {
		return nil
	}

	list := make([]string, 0, len(values))
	for _, value := range values {
		if s, ok := value.(string); ok {
			list = append(list, s)
		}
	}

	return list
}

func featureID(id any) string {
	switch v := id.(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case nil:
		return ""
	default:
		return fmt.Sprint(v)
	}
}

func formatDegrees(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}

func truncate(value string, limit int) string {
	if len(value) <= limit {
		return value
	}

	return value[:limit]
}

// IsUpstreamStatus reports whether err is an upstream answer with status.
func IsUpstreamStatus(err error, status int) bool {
	var upstream *domain.UpstreamError
	return errors.As(err, &upstream) && upstream.Status == status
}
