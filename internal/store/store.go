package store

import (
	"context"
	"errors"
	"strings"

	"github.com/jmoiron/sqlx"
)

var ErrNotFound = errors.New("not found")

const defaultPageSize = 250

const assetColumns = "a.id, a.owner_id, a.checksum, a.type, a.original_path, a.preview_path, a.thumbnail_path, a.city, a.state, a.country, a.make, a.model, a.taken_at, a.is_favorite, a.is_archived, a.created_at, a.updated_at, a.deleted_at"

type Store struct {
	db *sqlx.DB
}

func New(db *sqlx.DB) *Store {
	return &Store{db: db}
}

func (s *Store) DB() *sqlx.DB {
	return s.db
}

func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// SearchAssets runs a structured metadata query. Results are ordered by
// capture time in the requested direction; HasNextPage is derived by
// fetching one row past the requested page size.
func (s *Store) SearchAssets(ctx context.Context, opts AssetSearchOptions) (AssetPage, error) {
	if len(opts.OwnerIDs) == 0 {
		return AssetPage{Items: []Asset{}}, nil
	}

	page := opts.Page
	if page <= 0 {
		page = 1
	}
	size := opts.Size
	if size <= 0 {
		size = defaultPageSize
	}
	offset := (page - 1) * size

	where := []string{"a.deleted_at IS NULL"}
	args := []any{}

	where = append(where, "a.owner_id IN ("+placeholders(len(opts.OwnerIDs))+")")
	args = append(args, toAny(opts.OwnerIDs)...)

	if len(opts.Checksum) > 0 {
		where = append(where, "a.checksum = ?")
		args = append(args, opts.Checksum)
	}
	for _, f := range []struct {
		col string
		val string
	}{
		{"a.type", opts.Type},
		{"a.original_path", opts.OriginalPath},
		{"a.preview_path", opts.PreviewPath},
		{"a.thumbnail_path", opts.ThumbnailPath},
		{"a.city", opts.City},
		{"a.state", opts.State},
		{"a.country", opts.Country},
		{"a.make", opts.Make},
		{"a.model", opts.Model},
	} {
		if f.val != "" {
			where = append(where, f.col+" = ?")
			args = append(args, f.val)
		}
	}
	if opts.TakenAfter != nil {
		where = append(where, "a.taken_at >= ?")
		args = append(args, *opts.TakenAfter)
	}
	if opts.TakenBefore != nil {
		where = append(where, "a.taken_at <= ?")
		args = append(args, *opts.TakenBefore)
	}
	if opts.IsFavorite != nil {
		where = append(where, "a.is_favorite = ?")
		args = append(args, *opts.IsFavorite)
	}
	if opts.IsArchived != nil {
		where = append(where, "a.is_archived = ?")
		args = append(args, *opts.IsArchived)
	}

	join := ""
	groupBy := ""
	having := ""
	if len(opts.Tags) > 0 {
		tags := NormalizeTags(opts.Tags)
		if len(tags) > 0 {
			join = "JOIN asset_tag at ON at.asset_id = a.id JOIN tag t ON t.id = at.tag_id"
			where = append(where, "t.name IN ("+placeholders(len(tags))+")")
			args = append(args, toAny(tags)...)
			groupBy = "GROUP BY a.id"
			having = "HAVING COUNT(DISTINCT t.name) = ?"
			args = append(args, len(tags))
		}
	}

	dir := "DESC"
	if opts.Order == OrderAsc {
		dir = "ASC"
	}

	query := "SELECT " + assetColumns + " FROM asset a " + join +
		" WHERE " + strings.Join(where, " AND ") +
		" " + groupBy + " " + having +
		" ORDER BY a.taken_at " + dir + ", a.id " + dir +
		" LIMIT ? OFFSET ?"
	args = append(args, size+1, offset)

	var rows []Asset
	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return AssetPage{}, err
	}

	hasNext := len(rows) > size
	if hasNext {
		rows = rows[:size]
	}
	if err := s.attachTags(ctx, assetPtrs(rows)); err != nil {
		return AssetPage{}, err
	}
	return AssetPage{HasNextPage: hasNext, Items: rows}, nil
}

// GetAssetsByIDs fetches the given assets with their tags in one batched
// query. Missing ids are silently absent from the result.
func (s *Store) GetAssetsByIDs(ctx context.Context, ids []string) ([]Asset, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	query := "SELECT " + assetColumns + " FROM asset a WHERE a.id IN (" + placeholders(len(ids)) + ") AND a.deleted_at IS NULL"
	var rows []Asset
	if err := s.db.SelectContext(ctx, &rows, query, toAny(ids)...); err != nil {
		return nil, err
	}
	if err := s.attachTags(ctx, assetPtrs(rows)); err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *Store) attachTags(ctx context.Context, assets []*Asset) error {
	if len(assets) == 0 {
		return nil
	}
	ids := make([]string, len(assets))
	index := make(map[string]*Asset)
	for i, a := range assets {
		ids[i] = a.ID
		index[a.ID] = a
	}

	query := "SELECT at.asset_id, t.name FROM asset_tag at JOIN tag t ON t.id = at.tag_id WHERE at.asset_id IN (" + placeholders(len(ids)) + ") ORDER BY t.name"
	rows, err := s.db.QueryxContext(ctx, query, toAny(ids)...)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var assetID, name string
		if err := rows.Scan(&assetID, &name); err != nil {
			return err
		}
		index[assetID].Tags = append(index[assetID].Tags, name)
	}
	return rows.Err()
}

func assetPtrs(rows []Asset) []*Asset {
	out := make([]*Asset, len(rows))
	for i := range rows {
		out[i] = &rows[i]
	}
	return out
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}

func toAny[T comparable](vals []T) []any {
	res := make([]any, len(vals))
	for i, v := range vals {
		res[i] = v
	}
	return res
}
