// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package idn

import (
	"code.hybscloud.com/idencomp/model"
	"code.hybscloud.com/idencomp/modelchooser"
	"code.hybscloud.com/idencomp/rans"
	"code.hybscloud.com/idencomp/sequence"
)

// modelEntry is one registered model's derived rANS tables plus its
// alphabet, keyed by the originating Model's identifier so a decoder can
// recover a model's type (Acids vs QualityScores) from the identifier alone
// — exactly what original_source/idencomp/src/idn/model_provider.rs's
// ModelProvider does, since in the source a Model (not just its digest)
// is what gets registered and looked up.
type modelEntry struct {
	modelType model.Type
	enc       *rans.EncModel
	dec       *rans.DecModel
}

// Models is the immutable, build-then-freeze handle to every candidate
// model a Compressor/Decompressor may draw on, shared read-only across
// worker goroutines (spec.md §9, "Shared mutable model provider" — this
// module prefers a builder-then-freeze discipline over the source's
// runtime-mutated ModelProvider, avoiding any unsafe Arc::get_mut dance).
//
// Grounded on original_source/idencomp/src/idn/model_provider.rs, minus its
// mutation API: NewModels takes the full candidate pool once and derives
// every rANS table up front.
type Models struct {
	acid   []model.Model
	qScore []model.Model

	acidChooser   []modelchooser.EncModel
	qScoreChooser []modelchooser.EncModel

	byIdentifier map[model.Identifier]*modelEntry
}

// NewModels builds an immutable model pool from acid and qScore candidate
// models. Either slice may be empty, in which case a single empty/dummy
// model is substituted (spec.md §3, "map may be empty").
func NewModels(acid, qScore []model.Model) (*Models, error) {
	if len(acid) == 0 {
		acid = []model.Model{model.Empty(model.Acids)}
	}
	if len(qScore) == 0 {
		qScore = []model.Model{model.Empty(model.QualityScores)}
	}

	m := &Models{
		acid:         acid,
		qScore:       qScore,
		byIdentifier: make(map[model.Identifier]*modelEntry, len(acid)+len(qScore)),
	}

	m.acidChooser = make([]modelchooser.EncModel, len(acid))
	for i, mm := range acid {
		enc, err := rans.NewEncModel(mm, sequence.AcidSize, rans.ScaleBits)
		if err != nil {
			return nil, err
		}
		dec, err := rans.NewDecModel(mm, sequence.AcidSize, rans.ScaleBits)
		if err != nil {
			return nil, err
		}
		m.acidChooser[i] = enc
		m.byIdentifier[mm.Identifier()] = &modelEntry{modelType: model.Acids, enc: enc, dec: dec}
	}

	m.qScoreChooser = make([]modelchooser.EncModel, len(qScore))
	for i, mm := range qScore {
		enc, err := rans.NewEncModel(mm, sequence.QualityScoreSize, rans.ScaleBits)
		if err != nil {
			return nil, err
		}
		dec, err := rans.NewDecModel(mm, sequence.QualityScoreSize, rans.ScaleBits)
		if err != nil {
			return nil, err
		}
		m.qScoreChooser[i] = enc
		m.byIdentifier[mm.Identifier()] = &modelEntry{modelType: model.QualityScores, enc: enc, dec: dec}
	}

	return m, nil
}

// acidChooserModels/qScoreChooserModels expose this pool's candidate models
// to package modelchooser's bootstrap selection (spec.md §4.6 step 1).
func (m *Models) acidChooserModels() []modelchooser.EncModel   { return m.acidChooser }
func (m *Models) qScoreChooserModels() []modelchooser.EncModel { return m.qScoreChooser }

// encModelByIdentifier resolves one of this pool's encoder tables by the
// originating Model's identifier, verifying it belongs to alphabet t.
func (m *Models) encModelByIdentifier(id model.Identifier, t model.Type) (*rans.EncModel, error) {
	entry, ok := m.byIdentifier[id]
	if !ok || entry.modelType != t {
		return nil, ErrModelState{Reason: "unknown model identifier " + id.String()}
	}
	return entry.enc, nil
}

// decodeModelPool implements block.ModelPool over the fixed-order list of
// model identifiers this file's Metadata recorded (spec.md §6.1, §4.9):
// SwitchModel slice indices address this list directly, and each entry's
// alphabet is recovered from the registered Model it names rather than from
// its position in the list.
type decodeModelPool struct {
	types []model.Type
	dec   []*rans.DecModel
}

func newDecodeModelPool(m *Models, identifiers []model.Identifier) (*decodeModelPool, error) {
	p := &decodeModelPool{
		types: make([]model.Type, len(identifiers)),
		dec:   make([]*rans.DecModel, len(identifiers)),
	}
	for i, id := range identifiers {
		entry, ok := m.byIdentifier[id]
		if !ok {
			return nil, ErrModelState{Reason: "unknown model identifier " + id.String() + " in metadata"}
		}
		p.types[i] = entry.modelType
		p.dec[i] = entry.dec
	}
	return p, nil
}

func (p *decodeModelPool) Len() int                { return len(p.types) }
func (p *decodeModelPool) TypeAt(i int) model.Type { return p.types[i] }

// AcidDecModelAt/QScoreDecModelAt both index the same combined table; the
// caller (package block) only ever calls the one matching TypeAt(i), so a
// single backing slice suffices.
func (p *decodeModelPool) AcidDecModelAt(i int) *rans.DecModel   { return p.dec[i] }
func (p *decodeModelPool) QScoreDecModelAt(i int) *rans.DecModel { return p.dec[i] }
