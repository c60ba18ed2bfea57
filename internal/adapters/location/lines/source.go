package lines

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/bnema/geowhisper/internal/domain"
	"github.com/bnema/geowhisper/internal/ports"
)

type Options struct {
	// Interval paces replayed observations. Zero emits them as fast as the
	// consumer reads.
	Interval time.Duration
	Clock    ports.Clock
	Logger   *slog.Logger
}

// Source turns "lat,lon[,accuracy]" lines into observations. Blank lines and
// lines starting with # are ignored; malformed lines are logged and skipped.
type Source struct {
	open     func() (io.ReadCloser, error)
	interval time.Duration
	clock    ports.Clock
	logger   *slog.Logger
}

var _ ports.LocationSource = (*Source)(nil)

func NewSource(r io.Reader, opts Options) *Source {
	return newSource(func() (io.ReadCloser, error) {
		return io.NopCloser(r), nil
	}, opts)
}

// NewFileSource reads observations from path once Watch is called. A file
// the process may not read is reported as domain.ErrPermissionDenied.
func NewFileSource(path string, opts Options) *Source {
	return newSource(func() (io.ReadCloser, error) {
		file, err := os.Open(path)
		if err != nil {
			if errors.Is(err, fs.ErrPermission) {
				return nil, fmt.Errorf("%w: %s", domain.ErrPermissionDenied, path)
			}
			return nil, fmt.Errorf("open location input: %w", err)
		}
		return file, nil
	}, opts)
}

func newSource(open func() (io.ReadCloser, error), opts Options) *Source {
	if opts.Clock == nil {
		opts.Clock = ports.SystemClock{}
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	return &Source{open: open, interval: opts.Interval, clock: opts.Clock, logger: opts.Logger}
}

func (s *Source) Watch(ctx context.Context) (<-chan domain.Location, error) {
	reader, err := s.open()
	if err != nil {
		return nil, err
	}

	observations := make(chan domain.Location)
	go func() {
		defer close(observations)
		defer func() { _ = reader.Close() }()

		scanner := bufio.NewScanner(reader)
		lineNumber := 0
		for scanner.Scan() {
			lineNumber++
			line := strings.TrimSpace(scanner.Text())
			if line == "" || strings.HasPrefix(line, "#") {
				continue
			}

			location, err := ParseLine(line, s.clock.Now())
			if err != nil {
				s.logger.Warn("skipping location line", "line", lineNumber, "err", err)
				continue
			}

			select {
			case <-ctx.Done():
				return
			case observations <- location:
			}

			if !s.wait(ctx) {
				return
			}
		}
		if err := scanner.Err(); err != nil {
			s.logger.Error("read location input", "err", err)
		}
	}()

	return observations, nil
}

func (s *Source) wait(ctx context.Context) bool {
	if s.interval <= 0 {
		return ctx.Err() == nil
	}

	timer := time.NewTimer(s.interval)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

// ParseLine parses "lat,lon" or "lat,lon,accuracy" stamped with at.
func ParseLine(line string, at time.Time) (domain.Location, error) {
	fields := strings.Split(line, ",")
	if len(fields) < 2 || len(fields) > 3 {
		return domain.Location{}, fmt.Errorf("expected lat,lon[,accuracy], got %q", line)
	}

	values := make([]float64, 0, len(fields))
	for _, field := range fields {
		value, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
		if err != nil {
			return domain.Location{}, fmt.Errorf("parse %q: %w", field, err)
		}
		values = append(values, value)
	}

	var accuracy *float64
	if len(values) == 3 {
		if values[2] < 0 {
			return domain.Location{}, fmt.Errorf("accuracy must not be negative, got %v", values[2])
		}
		accuracy = &values[2]
	}

	location := domain.NewLocation(values[0], values[1], accuracy, at)
	if err := location.Validate(); err != nil {
		return domain.Location{}, err
	}

	return location, nil
}
