package shared

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math"
	"reflect"
	"strings"

	"github.com/rs/zerolog/log"

	"tempo/shared/cache"
	"tempo/shared/constant"
	"tempo/shared/dto"
	"tempo/shared/field"
	"tempo/shared/timezone"
)

const cacheKeySeparator = ":"

func CalculateTotalPage(total, limit int) (res int) {
	if total == 0 || limit <= 0 {
		res = 1
	} else {
		res = int(math.Ceil(float64(total) / float64(limit)))
	}

	return res
}

// TransformFields converts the db tagged fields of a patch struct into an
// update map. Zero values are skipped. Datetz fields are skipped when absent
// and stored as JSONB documents or NULL otherwise.
func TransformFields(data any) map[string]any {
	val := reflect.ValueOf(data)
	typ := val.Type()

	updatedFields := make(map[string]any)

	for index := range val.NumField() {
		column := typ.Field(index).Tag.Get("db")
		if column == "" {
			continue
		}

		value := val.Field(index)

		if stored, ok := value.Interface().(field.Stored); ok {
			if !stored.IsAbsent() {
				updatedFields[column] = stored.JSON()
			}

			continue
		}

		if value.IsZero() {
			continue
		}

		updatedFields[column] = value.Interface()
	}

	updatedFields[constant.FieldModifiedAt] = timezone.Now()

	return updatedFields
}

func FilterByID(id, fieldID, table string) dto.FilterGroup {
	return dto.FilterGroup{
		Filters: []any{
			dto.Filter{
				Field:    fieldID,
				Value:    id,
				Operator: dto.FilterOperatorEq,
				Table:    table,
			},
		},
	}
}

func BuildCacheKey(prefix string, parts ...string) string {
	return strings.Join(append([]string{prefix}, parts...), cacheKeySeparator)
}

// BuildCacheKeyWithQuery derives a stable key from pagination and filters.
func BuildCacheKeyWithQuery(prefix string, params dto.QueryParams, filter dto.FilterGroup) string {
	where, args := filter.GetWhereClause()

	// fmt prints maps with sorted keys.
	raw := fmt.Sprintf("%d|%d|%s|%s|%s|%v", params.Page, params.Limit, params.SortBy, params.SortDir, where, args)
	sum := sha256.Sum256([]byte(raw))

	return BuildCacheKey(prefix, hex.EncodeToString(sum[:8]))
}

// InvalidateCaches clears every key under prefix, logging failures.
func InvalidateCaches(ctx context.Context, c cache.RedisCache, prefix string) {
	if err := c.Clear(ctx, prefix); err != nil {
		log.Error().Err(err).Str("prefix", prefix).Msg("failed to invalidate caches")
	}
}
