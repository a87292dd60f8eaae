package repository

import (
	"fmt"
	"strings"

	"github.com/lib/pq"

	"tutormatch/search-service/internal/geo"
	"tutormatch/search-service/internal/search"
)

// buildWhere translates a typed predicate into SQL clauses with numbered
// placeholders, appending bind values to args. Placeholders continue from
// len(args)+1 so callers can pre-seed arguments.
func buildWhere(p search.Predicate, args []any) ([]string, []any, error) {
	schema := search.FieldSchema(p.Entity)
	clauses := make([]string, 0, len(p.Conditions))

	for _, c := range p.Conditions {
		spec, ok := schema[c.Field]
		if !ok {
			return nil, nil, fmt.Errorf("translate: unknown field %q for entity %s", c.Field, p.Entity)
		}
		col := spec.Column

		switch c.Kind {
		case search.KindEquals:
			args = append(args, c.Value)
			clauses = append(clauses, fmt.Sprintf("%s = $%d", col, len(args)))

		case search.KindRange:
			if c.Min != nil {
				args = append(args, c.Min)
				clauses = append(clauses, fmt.Sprintf("%s >= $%d", col, len(args)))
			}
			if c.Max != nil {
				op := "<="
				if c.MaxExclusive {
					op = "<"
				}
				args = append(args, c.Max)
				clauses = append(clauses, fmt.Sprintf("%s %s $%d", col, op, len(args)))
			}

		case search.KindSetMembership:
			args = append(args, pq.Array(c.Values))
			if spec.Array {
				clauses = append(clauses, fmt.Sprintf("%s && $%d", col, len(args)))
			} else {
				clauses = append(clauses, fmt.Sprintf("%s = ANY($%d)", col, len(args)))
			}

		case search.KindSubstring:
			args = append(args, "%"+c.Text+"%")
			if spec.Array {
				clauses = append(clauses, fmt.Sprintf(
					"EXISTS (SELECT 1 FROM unnest(%s) AS elem WHERE elem ILIKE $%d)", col, len(args)))
			} else {
				clauses = append(clauses, fmt.Sprintf("%s ILIKE $%d", col, len(args)))
			}

		default:
			return nil, nil, fmt.Errorf("translate: unsupported condition kind %d", c.Kind)
		}
	}

	return clauses, args, nil
}

// distanceExpr renders the spherical (haversine-equivalent) distance in
// meters between the bound origin and the row's point. The acos argument is
// clamped against floating point drift at antipodal/identical points.
func distanceExpr(latArg, lonArg int) string {
	return fmt.Sprintf(
		"(%.0f * acos(least(1.0, greatest(-1.0, "+
			"cos(radians($%d)) * cos(radians(latitude)) * cos(radians(longitude) - radians($%d)) + "+
			"sin(radians($%d)) * sin(radians(latitude))))))",
		geo.EarthRadiusM, latArg, lonArg, latArg)
}

// urgencyOrderExpr ranks job urgency tiers for ORDER BY; unknown tiers last.
func urgencyOrderExpr() string {
	var sb strings.Builder
	sb.WriteString("CASE urgency")
	for i, u := range search.UrgencyLevels {
		fmt.Fprintf(&sb, " WHEN '%s' THEN %d", u, i+1)
	}
	fmt.Fprintf(&sb, " ELSE %d END ASC", len(search.UrgencyLevels)+1)
	return sb.String()
}

// orderClause maps a validated sort key to its ORDER BY expression. Every
// ordering ends on created_at DESC (and id for full determinism) so
// pagination never sees ties reshuffle between pages.
func orderClause(entity search.EntityType, key search.SortKey) string {
	const recency = "created_at DESC, id ASC"

	if entity == search.EntityTeacher {
		switch key {
		case search.SortDistance:
			return "distance_m ASC, id ASC"
		case search.SortRating:
			return "avg_rating DESC, review_count DESC, " + recency
		case search.SortExperience:
			return "experience_years DESC, " + recency
		case search.SortPriceLow:
			return "hourly_rate ASC, " + recency
		case search.SortPriceHigh:
			return "hourly_rate DESC, " + recency
		default:
			return recency
		}
	}

	switch key {
	case search.SortDistance:
		return "distance_m ASC, id ASC"
	case search.SortBudgetLow:
		return "budget_amount ASC, " + recency
	case search.SortBudgetHigh:
		return "budget_amount DESC, " + recency
	case search.SortUrgency:
		return urgencyOrderExpr() + ", " + recency
	default:
		return recency
	}
}

// buildSearch assembles the page query. With a spatial bound the predicate
// scan is wrapped so every candidate carries distance_m and the radius cut
// applies to the computed distance; without one, distance_m is NULL and the
// fallback ordering is purely attribute-based.
func buildSearch(table string, q *search.Query) (string, []any, error) {
	clauses, args, err := buildWhere(q.Predicate, nil)
	if err != nil {
		return "", nil, err
	}
	where := "TRUE"
	if len(clauses) > 0 {
		where = strings.Join(clauses, " AND ")
	}

	order := orderClause(q.Predicate.Entity, q.Sort)

	var sb strings.Builder
	if q.Geo != nil {
		args = append(args, q.Geo.Origin.Latitude)
		latArg := len(args)
		args = append(args, q.Geo.Origin.Longitude)
		lonArg := len(args)
		args = append(args, q.Geo.RadiusM)
		radArg := len(args)

		fmt.Fprintf(&sb,
			"SELECT * FROM (SELECT %s.*, %s AS distance_m FROM %s WHERE %s) candidates WHERE distance_m <= $%d ORDER BY %s",
			table, distanceExpr(latArg, lonArg), table, where, radArg, order)
	} else {
		fmt.Fprintf(&sb,
			"SELECT %s.*, NULL::float8 AS distance_m FROM %s WHERE %s ORDER BY %s",
			table, table, where, order)
	}

	args = append(args, q.Limit)
	fmt.Fprintf(&sb, " LIMIT $%d", len(args))
	if q.Offset > 0 {
		args = append(args, q.Offset)
		fmt.Fprintf(&sb, " OFFSET $%d", len(args))
	}

	return sb.String(), args, nil
}

// buildCount assembles the independent total-count query over the same
// predicate and spatial bound, without the page slice.
func buildCount(table string, p search.Predicate, g *search.GeoBound) (string, []any, error) {
	clauses, args, err := buildWhere(p, nil)
	if err != nil {
		return "", nil, err
	}
	where := "TRUE"
	if len(clauses) > 0 {
		where = strings.Join(clauses, " AND ")
	}

	if g == nil {
		return fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE %s", table, where), args, nil
	}

	args = append(args, g.Origin.Latitude)
	latArg := len(args)
	args = append(args, g.Origin.Longitude)
	lonArg := len(args)
	args = append(args, g.RadiusM)
	radArg := len(args)

	query := fmt.Sprintf(
		"SELECT COUNT(*) FROM (SELECT %s AS distance_m FROM %s WHERE %s) candidates WHERE distance_m <= $%d",
		distanceExpr(latArg, lonArg), table, where, radArg)
	return query, args, nil
}
