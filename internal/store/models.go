package store

import "time"

type SortOrder string

const (
	OrderAsc  SortOrder = "asc"
	OrderDesc SortOrder = "desc"
)

type User struct {
	ID        string    `db:"id"`
	Email     string    `db:"email"`
	Name      string    `db:"name"`
	SortOrder SortOrder `db:"sort_order"`
	CreatedAt time.Time `db:"created_at"`
}

// Partner is a directional sharing relation: the owner identified by
// SharedByID shares assets with the user identified by SharedWithID.
// SharedBy is the owner-side consent flag, InTimeline the recipient-side
// opt-in; an owner is visible to the recipient only when both hold.
type Partner struct {
	SharedByID   string `db:"shared_by_id"`
	SharedWithID string `db:"shared_with_id"`
	SharedBy     bool   `db:"shared_by"`
	InTimeline   bool   `db:"in_timeline"`
}

type Asset struct {
	ID            string     `db:"id" json:"id"`
	OwnerID       string     `db:"owner_id" json:"ownerId"`
	Checksum      []byte     `db:"checksum" json:"checksum"`
	Type          string     `db:"type" json:"type"`
	OriginalPath  string     `db:"original_path" json:"originalPath"`
	PreviewPath   string     `db:"preview_path" json:"previewPath"`
	ThumbnailPath string     `db:"thumbnail_path" json:"thumbnailPath"`
	City          *string    `db:"city" json:"city,omitempty"`
	State         *string    `db:"state" json:"state,omitempty"`
	Country       *string    `db:"country" json:"country,omitempty"`
	Make          *string    `db:"make" json:"make,omitempty"`
	Model         *string    `db:"model" json:"model,omitempty"`
	TakenAt       time.Time  `db:"taken_at" json:"takenAt"`
	IsFavorite    bool       `db:"is_favorite" json:"isFavorite"`
	IsArchived    bool       `db:"is_archived" json:"isArchived"`
	CreatedAt     time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt     time.Time  `db:"updated_at" json:"updatedAt"`
	DeletedAt     *time.Time `db:"deleted_at" json:"deletedAt,omitempty"`
	Tags          []string   `db:"-" json:"tags"`
}

// AssetSearchOptions carries the fully normalized filter set for a metadata
// query. OwnerIDs is the resolved visibility scope and must not be empty.
type AssetSearchOptions struct {
	OwnerIDs      []string
	Checksum      []byte
	OriginalPath  string
	PreviewPath   string
	ThumbnailPath string
	City          string
	State         string
	Country       string
	Make          string
	Model         string
	Type          string
	Tags          []string
	TakenAfter    *time.Time
	TakenBefore   *time.Time
	IsFavorite    *bool
	IsArchived    *bool
	Order         SortOrder
	Page          int
	Size          int
}

type AssetPage struct {
	HasNextPage bool
	Items       []Asset
}

type FacetField string

const (
	FacetCity FacetField = "city"
	FacetTag  FacetField = "tag"
)

type FacetOptions struct {
	MaxFields         int
	MinAssetsPerField int
}

// FieldFacet groups the top values of one field, each with the id of a
// representative asset.
type FieldFacet struct {
	FieldName string      `json:"fieldName"`
	Items     []FacetItem `json:"items"`
}

type FacetItem struct {
	Value string `db:"value" json:"value"`
	Data  string `db:"data" json:"data"`
}
