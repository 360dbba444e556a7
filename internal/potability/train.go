package potability

import (
	"context"
	"fmt"
	"time"

	"github.com/abhisek/aquacheck/internal/dataset"
	"github.com/abhisek/aquacheck/internal/forest"
)

// TrainConfig controls the one-time model fit at startup.
type TrainConfig struct {
	TestFraction float64       `yaml:"test_fraction"`
	SplitSeed    uint64        `yaml:"split_seed"`
	Forest       forest.Config `yaml:"forest"`
}

// DefaultTrainConfig holds out 20% of rows with split seed 42.
func DefaultTrainConfig() TrainConfig {
	return TrainConfig{
		TestFraction: 0.2,
		SplitSeed:    42,
		Forest:       forest.DefaultConfig(),
	}
}

// Report summarizes a training run.
type Report struct {
	Rows      int           `json:"rows"`
	TrainRows int           `json:"train_rows"`
	TestRows  int           `json:"test_rows"`
	Imputed   int           `json:"imputed"`
	Positives int           `json:"positives"`
	Trees     int           `json:"trees"`
	Accuracy  float64       `json:"accuracy"`
	Duration  time.Duration `json:"duration"`
}

// Model is a trained forest plus how it was obtained.
type Model struct {
	Forest *forest.Forest
	Report Report
}

// Pipeline returns a prediction pipeline backed by the model.
func (m *Model) Pipeline() *Pipeline {
	return NewPipeline(m.Forest)
}

// Train splits ds, fits a forest on the training part and scores it on
// the held-out part.
func Train(ctx context.Context, ds *dataset.Dataset, cfg TrainConfig) (*Model, error) {
	start := time.Now()

	train, test := dataset.Split(ds, cfg.TestFraction, cfg.SplitSeed)
	f, err := forest.Fit(ctx, train.X, train.Y, cfg.Forest)
	if err != nil {
		return nil, fmt.Errorf("train classifier: %w", err)
	}

	return &Model{
		Forest: f,
		Report: Report{
			Rows:      ds.Len(),
			TrainRows: train.Len(),
			TestRows:  test.Len(),
			Imputed:   ds.Imputed,
			Positives: ds.Positives(),
			Trees:     f.NumTrees(),
			Accuracy:  f.Score(test.X, test.Y),
			Duration:  time.Since(start),
		},
	}, nil
}

// TrainFile loads the dataset at path and trains on it.
func TrainFile(ctx context.Context, path string, cfg TrainConfig) (*Model, error) {
	ds, err := dataset.Load(path)
	if err != nil {
		return nil, err
	}
	return Train(ctx, ds, cfg)
}
