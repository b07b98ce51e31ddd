package bronze

import (
	"context"
	"fmt"

	"github.com/couchcryptid/realestate-medallion/internal/engine"
)

// ValidationResult is the outcome of validating one Bronze table. Validators
// never mutate the table they inspect. IsValid is false whenever Errors is
// non-empty; warnings alone leave it true. The orchestrator does not run
// these validators, so neither errors nor warnings stop a pipeline run.
type ValidationResult struct {
	TableName        string
	EntityType        string
	IsValid           bool
	RecordCount       int
	SchemaValid       bool
	NullsValid        bool
	DuplicatesValid   bool
	DataTypesValid    bool
	Errors            []string
	Warnings          []string
}

func hasColumn(schema []engine.ColumnInfo, name string) bool {
	for _, c := range schema {
		if c.Name == name {
			return true
		}
	}
	return false
}

func countNulls(ctx context.Context, eng *engine.Engine, table, column string) (int, error) {
	if err := engine.ValidateIdentifier(column); err != nil {
		return 0, err
	}
	var count int
	row := eng.DB().QueryRowContext(ctx, fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE %s IS NULL", table, column))
	if err := row.Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func countDuplicates(ctx context.Context, eng *engine.Engine, table, column string) (int, error) {
	if err := engine.ValidateIdentifier(column); err != nil {
		return 0, err
	}
	query := fmt.Sprintf(`
		SELECT COUNT(*) FROM (
			SELECT %s, COUNT(*) AS cnt FROM %s GROUP BY %s HAVING COUNT(*) > 1
		) dupes`, column, table, column)
	var count int
	row := eng.DB().QueryRowContext(ctx, query)
	if err := row.Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func countRange(ctx context.Context, eng *engine.Engine, table, predicate string) (int, error) {
	var count int
	row := eng.DB().QueryRowContext(ctx, fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE %s", table, predicate))
	if err := row.Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

// ValidateProperty checks Bronze property data against spec.md §4.E.
func ValidateProperty(ctx context.Context, eng *engine.Engine, table string) (ValidationResult, error) {
	if err := engine.ValidateIdentifier(table); err != nil {
		return ValidationResult{}, err
	}
	var errs, warnings []string

	recordCount, err := eng.CountRecords(ctx, table)
	if err != nil {
		return ValidationResult{}, err
	}
	if recordCount == 0 {
		errs = append(errs, "no records found")
	}

	schema, err := eng.GetTableSchema(ctx, table)
	if err != nil {
		return ValidationResult{}, err
	}

	required := []string{
		"listing_id", "listing_price", "bedrooms", "bathrooms",
		"square_feet", "address", "city", "state", "zip_code",
		"latitude", "longitude",
	}
	schemaValid := true
	for _, field := range required {
		if !hasColumn(schema, field) {
			errs = append(errs, fmt.Sprintf("missing required field: %s", field))
			schemaValid = false
		}
	}

	nullsValid := true
	for _, field := range []string{"listing_id", "listing_price", "square_feet"} {
		if !hasColumn(schema, field) {
			continue
		}
		n, err := countNulls(ctx, eng, table, field)
		if err != nil {
			return ValidationResult{}, err
		}
		if n > 0 {
			warnings = append(warnings, fmt.Sprintf("%d nulls in %s", n, field))
			if field == "listing_id" {
				nullsValid = false
				errs = append(errs, fmt.Sprintf("null values in primary key field %s", field))
			}
		}
	}

	duplicatesValid := true
	if hasColumn(schema, "listing_id") {
		n, err := countDuplicates(ctx, eng, table, "listing_id")
		if err != nil {
			return ValidationResult{}, err
		}
		if n > 0 {
			errs = append(errs, fmt.Sprintf("%d duplicate listing_ids", n))
			duplicatesValid = false
		}
	}

	dataTypesValid := true
	if hasColumn(schema, "listing_price") && hasColumn(schema, "latitude") && hasColumn(schema, "longitude") {
		n, err := countRange(ctx, eng, table, `listing_price <= 0
			OR bedrooms < 0
			OR bathrooms < 0
			OR square_feet <= 0
			OR latitude NOT BETWEEN -90 AND 90
			OR longitude NOT BETWEEN -180 AND 180`)
		if err != nil {
			return ValidationResult{}, err
		}
		if n > 0 {
			warnings = append(warnings, fmt.Sprintf("%d records with invalid data ranges", n))
			dataTypesValid = false
		}
	}

	return ValidationResult{
		TableName:       table,
		EntityType:      "property",
		IsValid:         len(errs) == 0,
		RecordCount:     recordCount,
		SchemaValid:     schemaValid,
		NullsValid:      nullsValid,
		DuplicatesValid: duplicatesValid,
		DataTypesValid:  dataTypesValid,
		Errors:          errs,
		Warnings:        warnings,
	}, nil
}

// ValidateNeighborhood checks Bronze neighborhood data against spec.md §4.E.
func ValidateNeighborhood(ctx context.Context, eng *engine.Engine, table string) (ValidationResult, error) {
	if err := engine.ValidateIdentifier(table); err != nil {
		return ValidationResult{}, err
	}
	var errs, warnings []string

	recordCount, err := eng.CountRecords(ctx, table)
	if err != nil {
		return ValidationResult{}, err
	}
	if recordCount == 0 {
		errs = append(errs, "no records found")
	}

	schema, err := eng.GetTableSchema(ctx, table)
	if err != nil {
		return ValidationResult{}, err
	}

	schemaValid := true
	for _, field := range []string{"neighborhood_id", "name", "city", "state"} {
		if !hasColumn(schema, field) {
			errs = append(errs, fmt.Sprintf("missing required field: %s", field))
			schemaValid = false
		}
	}

	nullsValid := true
	if hasColumn(schema, "neighborhood_id") {
		n, err := countNulls(ctx, eng, table, "neighborhood_id")
		if err != nil {
			return ValidationResult{}, err
		}
		if n > 0 {
			errs = append(errs, "null values in neighborhood_id")
			nullsValid = false
		}
	}

	duplicatesValid := true
	if hasColumn(schema, "neighborhood_id") {
		n, err := countDuplicates(ctx, eng, table, "neighborhood_id")
		if err != nil {
			return ValidationResult{}, err
		}
		if n > 0 {
			errs = append(errs, fmt.Sprintf("%d duplicate neighborhood_ids", n))
			duplicatesValid = false
		}
	}

	dataTypesValid := true
	var conditions []string
	if hasColumn(schema, "population") {
		conditions = append(conditions, "population < 0")
	}
	if hasColumn(schema, "walkability_score") {
		conditions = append(conditions, "walkability_score NOT BETWEEN 0 AND 100")
	}
	if len(conditions) > 0 {
		predicate := conditions[0]
		for _, c := range conditions[1:] {
			predicate += " OR " + c
		}
		n, err := countRange(ctx, eng, table, predicate)
		if err != nil {
			return ValidationResult{}, err
		}
		if n > 0 {
			warnings = append(warnings, fmt.Sprintf("%d records with invalid data ranges", n))
			dataTypesValid = false
		}
	}

	return ValidationResult{
		TableName:       table,
		EntityType:      "neighborhood",
		IsValid:         len(errs) == 0,
		RecordCount:     recordCount,
		SchemaValid:     schemaValid,
		NullsValid:      nullsValid,
		DuplicatesValid: duplicatesValid,
		DataTypesValid:  dataTypesValid,
		Errors:          errs,
		Warnings:        warnings,
	}, nil
}

// ValidateWikipedia checks Bronze Wikipedia data against spec.md §4.E.
func ValidateWikipedia(ctx context.Context, eng *engine.Engine, table string) (ValidationResult, error) {
	if err := engine.ValidateIdentifier(table); err != nil {
		return ValidationResult{}, err
	}
	var errs, warnings []string

	recordCount, err := eng.CountRecords(ctx, table)
	if err != nil {
		return ValidationResult{}, err
	}
	if recordCount == 0 {
		errs = append(errs, "no records found")
	}

	schema, err := eng.GetTableSchema(ctx, table)
	if err != nil {
		return ValidationResult{}, err
	}

	schemaValid := true
	for _, field := range []string{"page_id", "title", "summary", "content", "url"} {
		if !hasColumn(schema, field) {
			errs = append(errs, fmt.Sprintf("missing required field: %s", field))
			schemaValid = false
		}
	}

	nullsValid := true
	if hasColumn(schema, "page_id") {
		n, err := countNulls(ctx, eng, table, "page_id")
		if err != nil {
			return ValidationResult{}, err
		}
		if n > 0 {
			errs = append(errs, "null values in page_id")
			nullsValid = false
		}
	}

	duplicatesValid := true
	if hasColumn(schema, "page_id") {
		n, err := countDuplicates(ctx, eng, table, "page_id")
		if err != nil {
			return ValidationResult{}, err
		}
		if n > 0 {
			errs = append(errs, fmt.Sprintf("%d duplicate page_ids", n))
			duplicatesValid = false
		}
	}

	dataTypesValid := true
	if hasColumn(schema, "content") {
		var minLen int
		row := eng.DB().QueryRowContext(ctx, fmt.Sprintf("SELECT MIN(LENGTH(content)) FROM %s", table))
		if err := row.Scan(&minLen); err != nil {
			return ValidationResult{}, err
		}
		if minLen < 100 {
			warnings = append(warnings, fmt.Sprintf("very short content found (min: %d chars)", minLen))
		}
	}

	return ValidationResult{
		TableName:       table,
		EntityType:      "wikipedia",
		IsValid:         len(errs) == 0,
		RecordCount:     recordCount,
		SchemaValid:     schemaValid,
		NullsValid:      nullsValid,
		DuplicatesValid: duplicatesValid,
		DataTypesValid:  dataTypesValid,
		Errors:          errs,
		Warnings:        warnings,
	}, nil
}

// ValidateLocation checks Bronze location-hierarchy data against spec.md §4.E.
// Location has no single required primary key (neighborhood/city/county/state
// are all optional), so it validates shape only: presence of at least one
// hierarchy field and absence of fully-empty rows.
func ValidateLocation(ctx context.Context, eng *engine.Engine, table string) (ValidationResult, error) {
	if err := engine.ValidateIdentifier(table); err != nil {
		return ValidationResult{}, err
	}
	var errs, warnings []string

	recordCount, err := eng.CountRecords(ctx, table)
	if err != nil {
		return ValidationResult{}, err
	}
	if recordCount == 0 {
		errs = append(errs, "no records found")
	}

	schema, err := eng.GetTableSchema(ctx, table)
	if err != nil {
		return ValidationResult{}, err
	}

	schemaValid := true
	hierarchyFields := []string{"neighborhood", "city", "county", "state"}
	present := 0
	for _, field := range hierarchyFields {
		if hasColumn(schema, field) {
			present++
		}
	}
	if present == 0 {
		errs = append(errs, "no geographic hierarchy fields present")
		schemaValid = false
	}

	var conditions []string
	for _, field := range hierarchyFields {
		if hasColumn(schema, field) {
			conditions = append(conditions, fmt.Sprintf("%s IS NOT NULL", field))
		}
	}
	nullsValid := true
	if len(conditions) > 0 {
		predicate := "NOT (" + conditions[0]
		for _, c := range conditions[1:] {
			predicate += " OR " + c
		}
		predicate += ")"
		n, err := countRange(ctx, eng, table, predicate)
		if err != nil {
			return ValidationResult{}, err
		}
		if n > 0 {
			warnings = append(warnings, fmt.Sprintf("%d rows have every hierarchy field null", n))
			nullsValid = false
		}
	}

	return ValidationResult{
		TableName:       table,
		EntityType:      "location",
		IsValid:         len(errs) == 0,
		RecordCount:     recordCount,
		SchemaValid:     schemaValid,
		NullsValid:      nullsValid,
		DuplicatesValid: true,
		DataTypesValid:  true,
		Errors:          errs,
		Warnings:        warnings,
	}, nil
}
