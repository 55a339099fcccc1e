package mtg

import (
	"net/url"
	"strconv"
)

// Set represents a card set (expansion, core set, promo set, ...).
type Set struct {
	Code               string        `json:"code"                         yaml:"code"`
	Name               string        `json:"name"                         yaml:"name"`
	Type               string        `json:"type"                         yaml:"type"`
	Border             string        `json:"border,omitempty"             yaml:"border,omitempty"`
	MKMID              int           `json:"mkm_id,omitempty"             yaml:"mkm_id,omitempty"`
	MKMName            string        `json:"mkm_name,omitempty"           yaml:"mkm_name,omitempty"`
	ReleaseDate        string        `json:"releaseDate"                  yaml:"release_date"`
	GathererCode       string        `json:"gathererCode,omitempty"       yaml:"gatherer_code,omitempty"`
	MagicCardsInfoCode string        `json:"magicCardsInfoCode,omitempty" yaml:"magic_cards_info_code,omitempty"`
	Booster            []interface{} `json:"booster,omitempty"            yaml:"booster,omitempty"`
	OldCode            string        `json:"oldCode,omitempty"            yaml:"old_code,omitempty"`
	OnlineOnly         bool          `json:"onlineOnly"                   yaml:"online_only"`
	Block              string        `json:"block,omitempty"              yaml:"block,omitempty"`
}

// Card represents a single printing of a card.
type Card struct {
	ID            string        `json:"id"                      yaml:"id"`
	Name          string        `json:"name"                    yaml:"name"`
	Names         []string      `json:"names,omitempty"         yaml:"names,omitempty"`
	ManaCost      string        `json:"manaCost,omitempty"      yaml:"mana_cost,omitempty"`
	CMC           float64       `json:"cmc"                     yaml:"cmc"`
	Colors        []string      `json:"colors,omitempty"        yaml:"colors,omitempty"`
	ColorIdentity []string      `json:"colorIdentity,omitempty" yaml:"color_identity,omitempty"`
	Type          string        `json:"type"                    yaml:"type"`
	Supertypes    []string      `json:"supertypes,omitempty"    yaml:"supertypes,omitempty"`
	Types         []string      `json:"types,omitempty"         yaml:"types,omitempty"`
	Subtypes      []string      `json:"subtypes,omitempty"      yaml:"subtypes,omitempty"`
	Rarity        string        `json:"rarity"                  yaml:"rarity"`
	Set           string        `json:"set"                     yaml:"set"`
	SetName       string        `json:"setName"                 yaml:"set_name"`
	Text          string        `json:"text,omitempty"          yaml:"text,omitempty"`
	Flavor        string        `json:"flavor,omitempty"        yaml:"flavor,omitempty"`
	Artist        string        `json:"artist,omitempty"        yaml:"artist,omitempty"`
	Number        string        `json:"number,omitempty"        yaml:"number,omitempty"`
	Power         string        `json:"power,omitempty"         yaml:"power,omitempty"`
	Toughness     string        `json:"toughness,omitempty"     yaml:"toughness,omitempty"`
	Loyalty       string        `json:"loyalty,omitempty"       yaml:"loyalty,omitempty"`
	Layout        string        `json:"layout,omitempty"        yaml:"layout,omitempty"`
	MultiverseID  string        `json:"multiverseid,omitempty"  yaml:"multiverse_id,omitempty"`
	ImageURL      string        `json:"imageUrl,omitempty"      yaml:"image_url,omitempty"`
	Variations    []string      `json:"variations,omitempty"    yaml:"variations,omitempty"`
	Rulings       []Ruling      `json:"rulings,omitempty"       yaml:"rulings,omitempty"`
	ForeignNames  []ForeignName `json:"foreignNames,omitempty"  yaml:"foreign_names,omitempty"`
	Printings     []string      `json:"printings,omitempty"     yaml:"printings,omitempty"`
	OriginalText  string        `json:"originalText,omitempty"  yaml:"original_text,omitempty"`
	OriginalType  string        `json:"originalType,omitempty"  yaml:"original_type,omitempty"`
	Legalities    []Legality    `json:"legalities,omitempty"    yaml:"legalities,omitempty"`
}

// Ruling is an official ruling attached to a card.
type Ruling struct {
	Date string `json:"date" yaml:"date"`
	Text string `json:"text" yaml:"text"`
}

// ForeignName is a card's name in another language.
type ForeignName struct {
	Name         string `json:"name"                   yaml:"name"`
	Text         string `json:"text,omitempty"         yaml:"text,omitempty"`
	Type         string `json:"type,omitempty"         yaml:"type,omitempty"`
	Flavor       string `json:"flavor,omitempty"       yaml:"flavor,omitempty"`
	ImageURL     string `json:"imageUrl,omitempty"     yaml:"image_url,omitempty"`
	Language     string `json:"language"               yaml:"language"`
	MultiverseID int    `json:"multiverseid,omitempty" yaml:"multiverse_id,omitempty"`
}

// Legality describes a card's legality in a format.
type Legality struct {
	Format   string `json:"format"   yaml:"format"`
	Legality string `json:"legality" yaml:"legality"`
}

// Catalog names the string-list endpoints.
type Catalog string

const (
	CatalogTypes      Catalog = "types"
	CatalogSubtypes   Catalog = "subtypes"
	CatalogSupertypes Catalog = "supertypes"
	CatalogFormats    Catalog = "formats"
)

// Catalogs lists every known catalog.
var Catalogs = []Catalog{CatalogTypes, CatalogSubtypes, CatalogSupertypes, CatalogFormats}

// QueryParams represents the paging options accepted by list endpoints.
type QueryParams struct {
	Page     int
	PageSize int
}

// NewQueryParams creates empty query parameters.
func NewQueryParams() *QueryParams {
	return &QueryParams{}
}

// WithPage sets the page number (1-based).
func (q *QueryParams) WithPage(page int) *QueryParams {
	q.Page = page

	return q
}

// WithPageSize sets the number of items per page.
func (q *QueryParams) WithPageSize(pageSize int) *QueryParams {
	q.PageSize = pageSize

	return q
}

// ToValues converts query params to url.Values.
func (q *QueryParams) ToValues() url.Values {
	values := url.Values{}

	if q.Page > 0 {
		values.Set("page", strconv.Itoa(q.Page))
	}

	if q.PageSize > 0 {
		values.Set("pageSize", strconv.Itoa(q.PageSize))
	}

	return values
}
