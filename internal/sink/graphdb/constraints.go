package graphdb

// namedStatement pairs a human-readable name with its Cypher
// statement. Failures here are non-fatal (swallowed, not returned) since a
// constraint may already exist under a different name, or the connected
// Neo4j edition/version may not support a given index kind — mirrors
// Neo4jWriter.create_constraints' per-statement try/except.
type namedStatement struct {
	name   string
	cypher string
}

var uniquenessConstraints = []namedStatement{
	{"property_id", "CREATE CONSTRAINT property_id IF NOT EXISTS FOR (p:Property) REQUIRE p.listing_id IS UNIQUE"},
	{"neighborhood_id", "CREATE CONSTRAINT neighborhood_id IF NOT EXISTS FOR (n:Neighborhood) REQUIRE n.neighborhood_id IS UNIQUE"},
	{"wikipedia_id", "CREATE CONSTRAINT wikipedia_id IF NOT EXISTS FOR (w:WikipediaArticle) REQUIRE w.page_id IS UNIQUE"},
	{"city_id", "CREATE CONSTRAINT city_id IF NOT EXISTS FOR (c:City) REQUIRE c.city_id IS UNIQUE"},
	{"county_id", "CREATE CONSTRAINT county_id IF NOT EXISTS FOR (c:County) REQUIRE c.county_id IS UNIQUE"},
	{"state_id", "CREATE CONSTRAINT state_id IF NOT EXISTS FOR (s:State) REQUIRE s.state_id IS UNIQUE"},
	{"feature_id", "CREATE CONSTRAINT feature_id IF NOT EXISTS FOR (f:Feature) REQUIRE f.feature_id IS UNIQUE"},
	{"property_type_id", "CREATE CONSTRAINT property_type_id IF NOT EXISTS FOR (pt:PropertyType) REQUIRE pt.type_id IS UNIQUE"},
	{"price_range_id", "CREATE CONSTRAINT price_range_id IF NOT EXISTS FOR (pr:PriceRange) REQUIRE pr.range_id IS UNIQUE"},
	{"zip_code_id", "CREATE CONSTRAINT zip_code_id IF NOT EXISTS FOR (z:ZipCode) REQUIRE z.zip_code IS UNIQUE"},
}

var fieldIndexes = []namedStatement{
	{"property_price", "CREATE INDEX property_price IF NOT EXISTS FOR (p:Property) ON (p.price)"},
	{"property_type", "CREATE INDEX property_type IF NOT EXISTS FOR (p:Property) ON (p.property_type)"},
	{"property_bedrooms", "CREATE INDEX property_bedrooms IF NOT EXISTS FOR (p:Property) ON (p.bedrooms)"},
	{"neighborhood_city", "CREATE INDEX neighborhood_city IF NOT EXISTS FOR (n:Neighborhood) ON (n.city)"},
	{"neighborhood_state", "CREATE INDEX neighborhood_state IF NOT EXISTS FOR (n:Neighborhood) ON (n.state)"},
}

// vectorIndexes creates cosine-similarity vector indexes of dimension
// 1024 for every node label carrying an embedding_vector, matching the
// canonical embedding dimension resolved in SPEC_FULL.md's Open Questions.
var vectorIndexes = []namedStatement{
	{"property_embedding", "CREATE VECTOR INDEX property_embedding IF NOT EXISTS FOR (p:Property) ON p.embedding_vector OPTIONS {indexConfig: {`vector.dimensions`: 1024, `vector.similarity_function`: 'cosine'}}"},
	{"neighborhood_embedding", "CREATE VECTOR INDEX neighborhood_embedding IF NOT EXISTS FOR (n:Neighborhood) ON n.embedding_vector OPTIONS {indexConfig: {`vector.dimensions`: 1024, `vector.similarity_function`: 'cosine'}}"},
	{"wikipedia_embedding", "CREATE VECTOR INDEX wikipedia_embedding IF NOT EXISTS FOR (w:WikipediaArticle) ON w.embedding_vector OPTIONS {indexConfig: {`vector.dimensions`: 1024, `vector.similarity_function`: 'cosine'}}"},
}
