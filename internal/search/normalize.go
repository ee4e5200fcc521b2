package search

import (
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/arawak/praline/internal/store"
)

const (
	defaultMetadataSize = 250
	defaultSmartSize    = 100

	// A base64-encoded 20-byte digest is exactly 28 characters; anything
	// else is treated as hex. Fixed policy, not configurable.
	checksumBase64Len = 28
)

// OrderPreference resolves to the requester's stored sort order rather than
// a literal direction.
const OrderPreference = "preference"

type MetadataSearchRequest struct {
	Checksum      string     `json:"checksum,omitempty"`
	OriginalPath  string     `json:"originalPath,omitempty"`
	PreviewPath   string     `json:"previewPath,omitempty"`
	ThumbnailPath string     `json:"thumbnailPath,omitempty"`
	ResizePath    string     `json:"resizePath,omitempty"`
	WebpPath      string     `json:"webpPath,omitempty"`
	City          string     `json:"city,omitempty"`
	State         string     `json:"state,omitempty"`
	Country       string     `json:"country,omitempty"`
	Make          string     `json:"make,omitempty"`
	Model         string     `json:"model,omitempty"`
	Type          string     `json:"type,omitempty"`
	Tags          []string   `json:"tags,omitempty"`
	TakenAfter    *time.Time `json:"takenAfter,omitempty"`
	TakenBefore   *time.Time `json:"takenBefore,omitempty"`
	IsFavorite    *bool      `json:"isFavorite,omitempty"`
	IsArchived    *bool      `json:"isArchived,omitempty"`
	Order         string     `json:"order,omitempty"`
	Page          int        `json:"page,omitempty"`
	Size          int        `json:"size,omitempty"`
}

type SmartSearchRequest struct {
	Query string `json:"query"`
	Page  int    `json:"page,omitempty"`
	Size  int    `json:"size,omitempty"`
}

// DecodeChecksum decodes a checksum string as base64 when it is exactly 28
// characters long and as hex otherwise. The decoded bytes are returned as-is
// even when their length is not a valid digest size; a checksum that matches
// nothing simply produces an empty result.
func DecodeChecksum(s string) ([]byte, error) {
	if s == "" {
		return nil, nil
	}
	if len(s) == checksumBase64Len {
		sum, err := base64.StdEncoding.DecodeString(s)
		if err != nil {
			return nil, fmt.Errorf("decode base64 checksum: %w", err)
		}
		return sum, nil
	}
	sum, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("decode hex checksum: %w", err)
	}
	return sum, nil
}

func (r MetadataSearchRequest) normalize(requester Requester, ownerIDs []string) (store.AssetSearchOptions, error) {
	checksum, err := DecodeChecksum(r.Checksum)
	if err != nil {
		return store.AssetSearchOptions{}, err
	}

	// Legacy path fields only fill absent values, never overwrite.
	previewPath := r.PreviewPath
	if previewPath == "" {
		previewPath = r.ResizePath
	}
	thumbnailPath := r.ThumbnailPath
	if thumbnailPath == "" {
		thumbnailPath = r.WebpPath
	}

	page, size := normalizePagination(r.Page, r.Size, defaultMetadataSize)

	return store.AssetSearchOptions{
		OwnerIDs:      ownerIDs,
		Checksum:      checksum,
		OriginalPath:  r.OriginalPath,
		PreviewPath:   previewPath,
		ThumbnailPath: thumbnailPath,
		City:          r.City,
		State:         r.State,
		Country:       r.Country,
		Make:          r.Make,
		Model:         r.Model,
		Type:          r.Type,
		Tags:          r.Tags,
		TakenAfter:    r.TakenAfter,
		TakenBefore:   r.TakenBefore,
		IsFavorite:    r.IsFavorite,
		IsArchived:    r.IsArchived,
		Order:         resolveOrder(r.Order, requester.Order),
		Page:          page,
		Size:          size,
	}, nil
}

// resolveOrder maps a request order onto a concrete direction. The default
// is descending; "preference" indirects through the requester's stored
// order so the indirection lives in one place.
func resolveOrder(order string, preference store.SortOrder) store.SortOrder {
	switch order {
	case string(store.OrderAsc):
		return store.OrderAsc
	case string(store.OrderDesc):
		return store.OrderDesc
	case OrderPreference:
		if preference == store.OrderAsc {
			return store.OrderAsc
		}
		return store.OrderDesc
	default:
		return store.OrderDesc
	}
}

// normalizePagination applies the defaults shared by both search paths:
// page 1 and the path-specific size, with zero treated as unset.
func normalizePagination(page, size, defaultSize int) (int, int) {
	if page <= 0 {
		page = 1
	}
	if size <= 0 {
		size = defaultSize
	}
	return page, size
}
