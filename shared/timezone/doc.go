// Package timezone resolves and caches IANA timezone locations.
//
// Usage Examples:
//
//  1. Resolving the zone a value should carry:
//     zone := timezone.Resolve(input.Timezone, field.Timezone) // input, then field default, then "UTC"
//
//  2. Loading a location (cached after the first lookup):
//     loc, err := timezone.Load("Europe/Rome")
//
//  3. Working in the application timezone:
//     timezone.Init(cfg.App.Timezone)
//     now := timezone.Now()
//
// Supported timezone formats:
// - Standard timezone names only: "UTC", "Asia/Jakarta", "America/New_York", "Europe/London"
//
// The application timezone is configured via the APP_TIMEZONE environment variable.
// Until Init is called it is UTC.
package timezone
