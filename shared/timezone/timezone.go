package timezone

import (
	"errors"
	"fmt"
	"sync"
	"time"
	_ "time/tzdata"

	"github.com/rs/zerolog/log"
)

// UTC is the last-resort zone of every resolution chain.
const UTC = "UTC"

var ErrUnknown = errors.New("unknown timezone")

var (
	locations   sync.Map
	appLocation = time.UTC
	appMu       sync.RWMutex
)

// Init sets the application timezone. An empty or unknown name leaves the
// current zone in place.
func Init(name string) {
	if name == "" {
		log.Warn().Msg("No timezone configured, keeping the current application timezone")

		return
	}

	loc, err := Load(name)
	if err != nil {
		log.Error().
			Err(err).
			Str("timezone", name).
			Msg("Failed to load timezone, keeping the current application timezone. Use IANA names like 'Asia/Jakarta' or 'America/New_York'")

		return
	}

	appMu.Lock()
	appLocation = loc
	appMu.Unlock()

	log.Info().
		Str("timezone", name).
		Str("location", loc.String()).
		Msg("Application timezone initialized")
}

// Load returns the location for an IANA name.
func Load(name string) (*time.Location, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: empty name", ErrUnknown)
	}

	if loc, ok := locations.Load(name); ok {
		return loc.(*time.Location), nil //nolint:forcetypeassert
	}

	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %w", ErrUnknown, name, err)
	}

	locations.Store(name, loc)

	return loc, nil
}

// Valid reports whether name is a loadable IANA zone.
func Valid(name string) bool {
	_, err := Load(name)

	return err == nil
}

// Resolve picks the first loadable zone among candidates, in order, and
// falls back to UTC. Empty candidates are skipped silently, unknown ones are
// logged.
func Resolve(candidates ...string) string {
	for _, name := range candidates {
		if name == "" {
			continue
		}

		if Valid(name) {
			return name
		}

		log.Warn().Str("timezone", name).Msg("Ignoring unknown timezone")
	}

	return UTC
}

// Now returns the current time in the application timezone
func Now() time.Time {
	return time.Now().In(GetLocation())
}

// ToAppTime converts a time to the application timezone
func ToAppTime(t time.Time) time.Time {
	return t.In(GetLocation())
}

// GetLocation returns the current application timezone location
func GetLocation() *time.Location {
	appMu.RLock()
	defer appMu.RUnlock()

	return appLocation
}

// Name returns the IANA name of the application timezone.
func Name() string {
	return GetLocation().String()
}

// Format formats a time in the application timezone
func Format(t time.Time, layout string) string {
	return ToAppTime(t).Format(layout)
}
