package domain

// Coordinates is a [longitude, latitude] pair, matching the order the
// analytical engine stores geographic points in (GeoJSON order, not
// lat/lon order).
type Coordinates struct {
	Longitude float64
	Latitude  float64
}

// Address is the Silver-layer canonical shape for a property's location,
// re-packed from Bronze's nested source fields.
type Address struct {
	Street   string
	City     string
	State    string
	ZipCode  string
	Location Coordinates
}

// ZipValidity classifies a ZIP code during Location Silver transform.
type ZipValidity string

const (
	ZipValid       ZipValidity = "valid"
	ZipInvalid     ZipValidity = "invalid"
	ZipPlaceholder ZipValidity = "placeholder"
	ZipMissing     ZipValidity = "missing"
)

// LocationType classifies a Location Silver/Gold row by its deepest
// non-null geographic level.
type LocationType string

const (
	LocationTypeNeighborhood LocationType = "neighborhood"
	LocationTypeCity         LocationType = "city"
	LocationTypeCounty       LocationType = "county"
	LocationTypeState        LocationType = "state"
	LocationTypeUnknown      LocationType = "unknown"
)

// SilverProperty is the canonical per-row shape of the silver_properties
// table, after flattening and embedding attachment.
type SilverProperty struct {
	ListingID      string
	Price          float64
	SquareFeet     float64
	Bedrooms       int
	Bathrooms      float64
	LotSizeSqFt    float64
	PropertyType   string
	Description    string
	Features       []string
	Address        Address
	NeighborhoodID string
	EmbeddingText  string
	Embedding      []float32
}

// SilverNeighborhood is the canonical per-row shape of the
// silver_neighborhoods table.
type SilverNeighborhood struct {
	NeighborhoodID    string
	Name              string
	City              string
	State             string
	CountyID          string
	Location          Coordinates
	Population        int
	WalkabilityScore  float64
	SchoolRating      float64
	WikipediaPageID    *int64
	EmbeddingText     string
	Embedding         []float32
}

// SilverWikipediaNeighborhoodRef is one neighborhood association attached to
// a Wikipedia Silver row by the left-aggregate over silver_neighborhoods.
type SilverWikipediaNeighborhoodRef struct {
	NeighborhoodID string
	Name           string
}

// SilverWikipedia is the canonical per-row shape of the silver_wikipedia
// table.
type SilverWikipedia struct {
	PageID                  int64
	Title                   string
	URL                     string
	Extract                 string
	Categories              []string
	State                   string
	NeighborhoodIDs         []string
	NeighborhoodNames       []string
	PrimaryNeighborhoodName string
	RelevanceScore          float64
	LinksCount              int
	EmbeddingText           string
	Embedding               []float32
}

// SilverLocation is the canonical per-row shape of the silver_locations
// table.
type SilverLocation struct {
	Neighborhood    string
	City            string
	County          string
	State           string // two-letter code
	StateStandardized string
	ZipCode         string
	ZipValidity     ZipValidity
	StateID         string
	CountyID        string
	CityID          string
	NeighborhoodID  string
	LocationType    LocationType
}

// GoldParking is the derived parking struct attached to Property Gold rows.
type GoldParking struct {
	HasParking  bool
	GarageSpaces int
	ParkingType string
}

// GoldProperty is the computed, read-only projection exposed by the
// gold_properties view.
type GoldProperty struct {
	SilverProperty
	Status              string
	Amenities           []string
	SearchTags          []string
	Parking             GoldParking
	NeighborhoodName    string
	EnrichedDescription string
	GoldProcessedAt     string // RFC3339; Gold never recomputes the embedding.
}

// GoldNeighborhood is the computed, read-only projection exposed by the
// gold_neighborhoods view.
type GoldNeighborhood struct {
	SilverNeighborhood
	DensityCategory               string
	OverallLivabilityScore        float64
	LifestyleCategory             string
	InvestmentAttractivenessScore float64
	BusinessFacets                []string
	GoldProcessedAt               string
}

// GoldWikipedia is the computed, read-only projection exposed by the
// gold_wikipedia view.
type GoldWikipedia struct {
	SilverWikipedia
	ContentDepthCategory string
	AuthorityScore       float64
	KeyTopics            []string
	ArticleQualityScore  float64
	ArticleQuality       string // premium | high | medium | basic
	SearchFacets         []string
	SearchRankingScore   float64
	GoldProcessedAt      string
}

// GoldLocation is the computed, read-only projection exposed by the
// gold_locations view.
type GoldLocation struct {
	SilverLocation
	GraphNodeID     string
	GoldProcessedAt string
}

// GraphNode is one row of a gold_graph_<label> node table.
type GraphNode struct {
	GraphNodeID string
	Label       string
	Properties  map[string]any
}

// GraphEdge is one row of a gold_graph_<relationship_type> edge table.
type GraphEdge struct {
	FromID           string
	ToID             string
	RelationshipType string
	Weight           *float64
}
