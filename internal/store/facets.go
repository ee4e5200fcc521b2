package store

import (
	"context"
	"fmt"
	"strings"
)

// FacetValues groups the visible assets by the given field and returns the
// top values, each paired with the id of its most recent asset. Values with
// fewer than MinAssetsPerField assets are dropped; at most MaxFields values
// are returned.
func (s *Store) FacetValues(ctx context.Context, ownerIDs []string, field FacetField, opts FacetOptions) (FieldFacet, error) {
	if len(ownerIDs) == 0 {
		return FieldFacet{FieldName: string(field), Items: []FacetItem{}}, nil
	}

	owners := placeholders(len(ownerIDs))
	var query string
	args := []any{}

	switch field {
	case FacetCity:
		query = "SELECT a.city AS value, " +
			"(SELECT a2.id FROM asset a2 WHERE a2.city = a.city AND a2.deleted_at IS NULL AND a2.owner_id IN (" + owners + ") ORDER BY a2.taken_at DESC LIMIT 1) AS data " +
			"FROM asset a " +
			"WHERE a.deleted_at IS NULL AND a.city IS NOT NULL AND a.city <> '' AND a.owner_id IN (" + owners + ") " +
			"GROUP BY a.city HAVING COUNT(*) >= ? ORDER BY COUNT(*) DESC, a.city LIMIT ?"
		args = append(args, toAny(ownerIDs)...)
		args = append(args, toAny(ownerIDs)...)
	case FacetTag:
		query = "SELECT t.name AS value, " +
			"(SELECT at2.asset_id FROM asset_tag at2 JOIN asset a2 ON a2.id = at2.asset_id WHERE at2.tag_id = t.id AND a2.deleted_at IS NULL AND a2.owner_id IN (" + owners + ") ORDER BY a2.taken_at DESC LIMIT 1) AS data " +
			"FROM tag t JOIN asset_tag at ON at.tag_id = t.id JOIN asset a ON a.id = at.asset_id " +
			"WHERE a.deleted_at IS NULL AND a.owner_id IN (" + owners + ") " +
			"GROUP BY t.id, t.name HAVING COUNT(*) >= ? ORDER BY COUNT(*) DESC, t.name LIMIT ?"
		args = append(args, toAny(ownerIDs)...)
		args = append(args, toAny(ownerIDs)...)
	default:
		return FieldFacet{}, fmt.Errorf("unknown facet field: %s", field)
	}
	args = append(args, opts.MinAssetsPerField, opts.MaxFields)

	items := []FacetItem{}
	if err := s.db.SelectContext(ctx, &items, query, args...); err != nil {
		return FieldFacet{}, err
	}
	return FieldFacet{FieldName: string(field), Items: items}, nil
}

func (s *Store) DistinctCountries(ctx context.Context, ownerID string) ([]string, error) {
	return s.distinctColumn(ctx, "country", ownerID, nil)
}

func (s *Store) DistinctStates(ctx context.Context, ownerID, country string) ([]string, error) {
	return s.distinctColumn(ctx, "state", ownerID, map[string]string{"country": country})
}

func (s *Store) DistinctCities(ctx context.Context, ownerID, country, state string) ([]string, error) {
	return s.distinctColumn(ctx, "city", ownerID, map[string]string{"country": country, "state": state})
}

func (s *Store) DistinctCameraMakes(ctx context.Context, ownerID, model string) ([]string, error) {
	return s.distinctColumn(ctx, "make", ownerID, map[string]string{"model": model})
}

func (s *Store) DistinctCameraModels(ctx context.Context, ownerID, make string) ([]string, error) {
	return s.distinctColumn(ctx, "model", ownerID, map[string]string{"make": make})
}

var distinctColumns = map[string]struct{}{
	"country": {}, "state": {}, "city": {}, "make": {}, "model": {},
}

func (s *Store) distinctColumn(ctx context.Context, column, ownerID string, filters map[string]string) ([]string, error) {
	if _, ok := distinctColumns[column]; !ok {
		return nil, fmt.Errorf("unknown suggestion column: %s", column)
	}
	where := []string{"deleted_at IS NULL", "owner_id = ?", column + " IS NOT NULL", column + " <> ''"}
	args := []any{ownerID}
	for col, val := range filters {
		if _, ok := distinctColumns[col]; !ok {
			return nil, fmt.Errorf("unknown suggestion filter: %s", col)
		}
		if val != "" {
			where = append(where, col+" = ?")
			args = append(args, val)
		}
	}
	query := "SELECT DISTINCT " + column + " FROM asset WHERE " + strings.Join(where, " AND ") + " ORDER BY " + column
	values := []string{}
	if err := s.db.SelectContext(ctx, &values, query, args...); err != nil {
		return nil, err
	}
	return values, nil
}
