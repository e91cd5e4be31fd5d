// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package modelstore

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"code.hybscloud.com/idencomp/model"
)

// Store is a lookup-by-identifier collection of loaded models, split by
// alphabet so callers can hand each half straight to idn.NewModels.
//
// Grounded on original_source/idencomp/src/idn/model_provider.rs's
// ModelProvider::from_directory, minus its mutable preprocess_*_models
// machinery (package idn's Models already builds both encode and decode
// rANS tables up front).
type Store struct {
	byIdentifier map[model.Identifier]model.Model
	acid         []model.Model
	qScore       []model.Model
}

// FromDirectory loads every file in dir as a serialized model, in parallel,
// and returns a Store indexing them by identifier. Each file gets its own
// goroutine under one sync.WaitGroup, with no cap on how many run at once:
// this is a one-shot startup load, not a sustained worker pool
// (SPEC_FULL.md §C.10).
func FromDirectory(dir string) (*Store, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	models := make([]model.Model, len(entries))
	errs := make([]error, len(entries))

	var wg sync.WaitGroup
	for i, entry := range entries {
		if entry.IsDir() {
			continue
		}
		wg.Add(1)
		go func(i int, name string) {
			defer wg.Done()
			m, err := loadModelFile(filepath.Join(dir, name))
			if err != nil {
				errs[i] = fmt.Errorf("modelstore: loading %q: %w", name, err)
				return
			}
			models[i] = m
		}(i, entry.Name())
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	s := &Store{byIdentifier: make(map[model.Identifier]model.Model, len(models))}
	for i, entry := range entries {
		if entry.IsDir() {
			continue
		}
		m := models[i]
		s.byIdentifier[m.Identifier()] = m
		switch m.ModelType() {
		case model.Acids:
			s.acid = append(s.acid, m)
		case model.QualityScores:
			s.qScore = append(s.qScore, m)
		}
	}
	return s, nil
}

func loadModelFile(path string) (model.Model, error) {
	f, err := os.Open(path)
	if err != nil {
		return model.Model{}, err
	}
	defer f.Close()
	return ReadModel(f)
}

// Len reports the total number of models this store holds.
func (s *Store) Len() int { return len(s.byIdentifier) }

// ByIdentifier looks up a single model by its identifier.
func (s *Store) ByIdentifier(id model.Identifier) (model.Model, bool) {
	m, ok := s.byIdentifier[id]
	return m, ok
}

// AcidModels returns every loaded acid model.
func (s *Store) AcidModels() []model.Model { return s.acid }

// QualityScoreModels returns every loaded quality-score model.
func (s *Store) QualityScoreModels() []model.Model { return s.qScore }
