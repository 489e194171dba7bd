// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// CorpusSource selects the corpus loader backend.
type CorpusSource string

const (
	SourceJSONL   CorpusSource = "jsonl"
	SourceSQLite  CorpusSource = "sqlite"
	SourceMongoDB CorpusSource = "mongodb"
)

// CorpusConfig holds settings for corpus loading.
type CorpusConfig struct {
	// Source selects the loader backend: jsonl, sqlite, or mongodb.
	Source CorpusSource `json:"source" yaml:"source"`

	// Path is the input file for the jsonl and sqlite sources.
	Path string `json:"path" yaml:"path"`

	// MongoURI is the full connection string for the mongodb source. When
	// empty it is assembled from the secrets directory.
	MongoURI string `json:"mongo_uri,omitempty" yaml:"mongo_uri,omitempty"`

	// MongoDatabase is the database name (default "recipes").
	MongoDatabase string `json:"mongo_database" yaml:"mongo_database"`

	// MongoCollection is the collection name (default "recipes").
	MongoCollection string `json:"mongo_collection" yaml:"mongo_collection"`
}

// TrainingConfig holds settings for the training pipeline.
type TrainingConfig struct {
	// HoldoutFraction is the share of the corpus reserved for evaluation
	// (default 0.2).
	HoldoutFraction float64 `json:"holdout_fraction" yaml:"holdout_fraction"`

	// Seed drives the corpus shuffle and the forest's bootstrap sampling so
	// training runs are reproducible (default 42).
	Seed int64 `json:"seed" yaml:"seed"`

	// MinDocFreq drops vocabulary terms seen in fewer training recipes
	// (default 2).
	MinDocFreq int `json:"min_doc_freq" yaml:"min_doc_freq"`

	// Trees is the forest size (default 100).
	Trees int `json:"trees" yaml:"trees"`
}

// RecommendConfig holds query-time defaults.
type RecommendConfig struct {
	// TopN is the default number of recommendations (default 5).
	TopN int `json:"top_n" yaml:"top_n"`

	// Threshold is the minimum combined score (default 0.3).
	Threshold float64 `json:"threshold" yaml:"threshold"`
}

// ModelConfig holds model persistence settings.
type ModelConfig struct {
	// Path is where the trained model blob lives
	// (default "models/recipe-engine.gob").
	Path string `json:"path" yaml:"path"`
}

// PipelineConfig groups all stage configurations.
type PipelineConfig struct {
	Corpus    CorpusConfig    `json:"corpus" yaml:"corpus"`
	Training  TrainingConfig  `json:"training" yaml:"training"`
	Recommend RecommendConfig `json:"recommend" yaml:"recommend"`
	Model     ModelConfig     `json:"model" yaml:"model"`
}

// WithDefaults returns a copy with zero values replaced by stage defaults.
func (c TrainingConfig) WithDefaults() TrainingConfig {
	if c.HoldoutFraction <= 0 || c.HoldoutFraction >= 1 {
		c.HoldoutFraction = 0.2
	}
	if c.Seed == 0 {
		c.Seed = 42
	}
	if c.MinDocFreq <= 0 {
		c.MinDocFreq = 2
	}
	if c.Trees <= 0 {
		c.Trees = 100
	}
	return c
}
