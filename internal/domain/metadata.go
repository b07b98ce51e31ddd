package domain

import (
	"fmt"
	"time"
)

// EntityType names one of the four streams the pipeline refines.
type EntityType string

const (
	EntityProperty     EntityType = "property"
	EntityNeighborhood EntityType = "neighborhood"
	EntityWikipedia    EntityType = "wikipedia"
	EntityLocation     EntityType = "location"
)

// BronzeMetadata records the outcome of a single Bronze ingest.
//
// Frozen after construction: NewBronzeMetadata rejects negative counts so
// callers never have to re-validate a value they're about to hand off.
type BronzeMetadata struct {
	tableName   string
	sourcePath  string
	recordCount int
	entityType  EntityType
}

// NewBronzeMetadata validates and constructs a BronzeMetadata.
func NewBronzeMetadata(tableName, sourcePath string, recordCount int, entityType EntityType) (BronzeMetadata, error) {
	if recordCount < 0 {
		return BronzeMetadata{}, fmt.Errorf("domain: bronze record_count must be >= 0, got %d", recordCount)
	}
	return BronzeMetadata{
		tableName:   tableName,
		sourcePath:  sourcePath,
		recordCount: recordCount,
		entityType:  entityType,
	}, nil
}

func (m BronzeMetadata) TableName() string     { return m.tableName }
func (m BronzeMetadata) SourcePath() string    { return m.sourcePath }
func (m BronzeMetadata) RecordCount() int      { return m.recordCount }
func (m BronzeMetadata) EntityType() EntityType { return m.entityType }

// SilverMetadata records the outcome of a single Silver transform.
type SilverMetadata struct {
	inputTable   string
	outputTable  string
	inputCount   int
	outputCount  int
	droppedCount int
	entityType   EntityType
}

// NewSilverMetadata validates and constructs a SilverMetadata.
// droppedCount is derived as inputCount - outputCount, per spec.
func NewSilverMetadata(inputTable, outputTable string, inputCount, outputCount int, entityType EntityType) (SilverMetadata, error) {
	if inputCount < 0 || outputCount < 0 {
		return SilverMetadata{}, fmt.Errorf("domain: silver counts must be >= 0, got input=%d output=%d", inputCount, outputCount)
	}
	if outputCount > inputCount {
		return SilverMetadata{}, fmt.Errorf("domain: silver output_count (%d) exceeds input_count (%d)", outputCount, inputCount)
	}
	return SilverMetadata{
		inputTable:   inputTable,
		outputTable:  outputTable,
		inputCount:   inputCount,
		outputCount:  outputCount,
		droppedCount: inputCount - outputCount,
		entityType:   entityType,
	}, nil
}

func (m SilverMetadata) InputTable() string     { return m.inputTable }
func (m SilverMetadata) OutputTable() string    { return m.outputTable }
func (m SilverMetadata) InputCount() int        { return m.inputCount }
func (m SilverMetadata) OutputCount() int       { return m.outputCount }
func (m SilverMetadata) DroppedCount() int      { return m.droppedCount }
func (m SilverMetadata) EntityType() EntityType { return m.entityType }

// GoldMetadata records the outcome of a single Gold enrichment.
type GoldMetadata struct {
	inputTable         string
	outputTable        string
	inputCount         int
	outputCount        int
	enrichmentsApplied []string
	entityType         EntityType
}

// NewGoldMetadata validates and constructs a GoldMetadata.
func NewGoldMetadata(inputTable, outputTable string, inputCount, outputCount int, enrichmentsApplied []string, entityType EntityType) (GoldMetadata, error) {
	if inputCount < 0 || outputCount < 0 {
		return GoldMetadata{}, fmt.Errorf("domain: gold counts must be >= 0, got input=%d output=%d", inputCount, outputCount)
	}
	return GoldMetadata{
		inputTable:         inputTable,
		outputTable:        outputTable,
		inputCount:         inputCount,
		outputCount:        outputCount,
		enrichmentsApplied: append([]string(nil), enrichmentsApplied...),
		entityType:         entityType,
	}, nil
}

func (m GoldMetadata) InputTable() string            { return m.inputTable }
func (m GoldMetadata) OutputTable() string           { return m.outputTable }
func (m GoldMetadata) InputCount() int               { return m.inputCount }
func (m GoldMetadata) OutputCount() int               { return m.outputCount }
func (m GoldMetadata) EnrichmentsApplied() []string   { return append([]string(nil), m.enrichmentsApplied...) }
func (m GoldMetadata) EntityType() EntityType         { return m.entityType }

// EmbeddingMetadata records the outcome of attaching embeddings to a table.
type EmbeddingMetadata struct {
	entityType         EntityType
	targetTable        string
	recordsProcessed   int
	embeddingsGenerated int
	recordsSkipped     int
	embeddingDimension int
	embeddingModel     string
}

// NewEmbeddingMetadata validates and constructs an EmbeddingMetadata.
func NewEmbeddingMetadata(entityType EntityType, targetTable string, recordsProcessed, embeddingsGenerated, recordsSkipped, embeddingDimension int, embeddingModel string) (EmbeddingMetadata, error) {
	if recordsProcessed < 0 || embeddingsGenerated < 0 || recordsSkipped < 0 {
		return EmbeddingMetadata{}, fmt.Errorf("domain: embedding counts must be >= 0")
	}
	return EmbeddingMetadata{
		entityType:          entityType,
		targetTable:         targetTable,
		recordsProcessed:    recordsProcessed,
		embeddingsGenerated: embeddingsGenerated,
		recordsSkipped:      recordsSkipped,
		embeddingDimension:  embeddingDimension,
		embeddingModel:      embeddingModel,
	}, nil
}

func (m EmbeddingMetadata) EntityType() EntityType      { return m.entityType }
func (m EmbeddingMetadata) TargetTable() string          { return m.targetTable }
func (m EmbeddingMetadata) RecordsProcessed() int        { return m.recordsProcessed }
func (m EmbeddingMetadata) EmbeddingsGenerated() int      { return m.embeddingsGenerated }
func (m EmbeddingMetadata) RecordsSkipped() int          { return m.recordsSkipped }
func (m EmbeddingMetadata) EmbeddingDimension() int      { return m.embeddingDimension }
func (m EmbeddingMetadata) EmbeddingModel() string        { return m.embeddingModel }

// StageMetrics captures the timing and volume of a single pipeline stage run.
type StageMetrics struct {
	stageName      string
	inputRecords   int
	outputRecords  int
	droppedRecords int
	errorCount     int
	startTime      time.Time
	endTime        time.Time
}

// NewStageMetrics validates and constructs a StageMetrics.
func NewStageMetrics(stageName string, inputRecords, outputRecords, droppedRecords, errorCount int, startTime, endTime time.Time) (StageMetrics, error) {
	if inputRecords < 0 || outputRecords < 0 || droppedRecords < 0 || errorCount < 0 {
		return StageMetrics{}, fmt.Errorf("domain: stage metrics counts must be >= 0")
	}
	if endTime.Before(startTime) {
		return StageMetrics{}, fmt.Errorf("domain: stage end_time %s precedes start_time %s", endTime, startTime)
	}
	return StageMetrics{
		stageName:      stageName,
		inputRecords:   inputRecords,
		outputRecords:  outputRecords,
		droppedRecords: droppedRecords,
		errorCount:     errorCount,
		startTime:      startTime,
		endTime:        endTime,
	}, nil
}

func (m StageMetrics) StageName() string      { return m.stageName }
func (m StageMetrics) InputRecords() int      { return m.inputRecords }
func (m StageMetrics) OutputRecords() int     { return m.outputRecords }
func (m StageMetrics) DroppedRecords() int    { return m.droppedRecords }
func (m StageMetrics) ErrorCount() int        { return m.errorCount }
func (m StageMetrics) StartTime() time.Time   { return m.startTime }
func (m StageMetrics) EndTime() time.Time     { return m.endTime }

// DurationSeconds is the wall-clock span of the stage.
func (m StageMetrics) DurationSeconds() float64 {
	return m.endTime.Sub(m.startTime).Seconds()
}

// RecordsPerSecond is OutputRecords divided by DurationSeconds, 0 when the
// stage took no measurable time.
func (m StageMetrics) RecordsPerSecond() float64 {
	d := m.DurationSeconds()
	if d <= 0 {
		return 0
	}
	return float64(m.outputRecords) / d
}

// SuccessRate is the fraction of input records that produced no error,
// 1.0 when there were no input records.
func (m StageMetrics) SuccessRate() float64 {
	if m.inputRecords == 0 {
		return 1.0
	}
	return float64(m.inputRecords-m.errorCount) / float64(m.inputRecords)
}

// EntityMetrics aggregates the per-stage metrics gathered while refining one
// entity type through a layer.
type EntityMetrics struct {
	EntityType EntityType
	Stages     []StageMetrics
}

// PipelineMetrics aggregates an entire run's EntityMetrics.
type PipelineMetrics struct {
	PipelineID     string
	StartTime      time.Time
	EndTime        time.Time
	Entities       map[EntityType]EntityMetrics
	Status         string // "running", "completed", or "failed"
	ErrorMessages  []string
}

// DurationSeconds is the wall-clock span of the full run.
func (p PipelineMetrics) DurationSeconds() float64 {
	return p.EndTime.Sub(p.StartTime).Seconds()
}

// TotalRecordsProcessed sums OutputRecords across every stage of every entity.
func (p PipelineMetrics) TotalRecordsProcessed() int {
	total := 0
	for _, em := range p.Entities {
		for _, sm := range em.Stages {
			total += sm.OutputRecords()
		}
	}
	return total
}
