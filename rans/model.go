// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package rans

import (
	"fmt"

	"code.hybscloud.com/idencomp/context"
	"code.hybscloud.com/idencomp/contextspec"
	"code.hybscloud.com/idencomp/model"
)

// ErrModelTooLarge is returned when a model exceeds MaxContexts contexts at
// table-build time (spec.md §4.7, §7 "Model-state" errors).
type ErrModelTooLarge struct {
	ContextNum int
}

func (e ErrModelTooLarge) Error() string {
	return fmt.Sprintf("rans: model too large: context num %d, maximum %d", e.ContextNum, MaxContexts)
}

func checkModel(m model.Model) error {
	if m.Len() > MaxContexts {
		return ErrModelTooLarge{ContextNum: m.Len()}
	}
	return nil
}

// EncModel is the encoder-side rANS table derived from a Model: a dummy
// context at index 0 plus one RansEncContext per model context, addressed
// by a dense spec→index table sized to the spec type's full domain
// (spec.md §4.7, original_source sequence_compressor.rs RansEncModel).
type EncModel struct {
	identifier model.Identifier
	specType   contextspec.Type
	contexts   []EncContext
	specMap    []int
}

// NewEncModel builds an encoder table from m, for an alphabet of symbolsNum
// symbols, scaled to scaleBits.
func NewEncModel(m model.Model, symbolsNum int, scaleBits uint8) (*EncModel, error) {
	if err := checkModel(m); err != nil {
		return nil, err
	}

	contexts := make([]EncContext, 0, m.Len()+1)
	contexts = append(contexts, NewEncContext(context.Dummy(symbolsNum), scaleBits))
	for _, ctx := range m.Contexts() {
		contexts = append(contexts, NewEncContext(ctx, scaleBits))
	}

	specMap := make([]int, m.ContextSpecType().SpecNum())
	for spec, idx := range m.Map() {
		specMap[uint32(spec)] = idx + 1
	}

	return &EncModel{
		identifier: m.Identifier(),
		specType:   m.ContextSpecType(),
		contexts:   contexts,
		specMap:    specMap,
	}, nil
}

// Identifier returns the originating Model's identifier.
func (m *EncModel) Identifier() model.Identifier { return m.identifier }

// ContextSpecType returns the generator variant used to address this
// model's contexts.
func (m *EncModel) ContextSpecType() contextspec.Type { return m.specType }

// ContextFor resolves the encoder table for spec, falling back to the
// dummy context (index 0) for any spec the model never assigned.
func (m *EncModel) ContextFor(spec contextspec.Spec) *EncContext {
	return &m.contexts[m.specMap[uint32(spec)]]
}

// DecModel is the decoder-side counterpart to EncModel.
type DecModel struct {
	specType contextspec.Type
	contexts []DecContext
	specMap  []int
}

// NewDecModel builds a decoder table from m, for an alphabet of symbolsNum
// symbols, scaled to scaleBits.
func NewDecModel(m model.Model, symbolsNum int, scaleBits uint8) (*DecModel, error) {
	if err := checkModel(m); err != nil {
		return nil, err
	}

	contexts := make([]DecContext, 0, m.Len()+1)
	contexts = append(contexts, NewDecContext(context.Dummy(symbolsNum), scaleBits))
	for _, ctx := range m.Contexts() {
		contexts = append(contexts, NewDecContext(ctx, scaleBits))
	}

	specMap := make([]int, m.ContextSpecType().SpecNum())
	for spec, idx := range m.Map() {
		specMap[uint32(spec)] = idx + 1
	}

	return &DecModel{
		specType: m.ContextSpecType(),
		contexts: contexts,
		specMap:  specMap,
	}, nil
}

// ContextSpecType returns the generator variant used to address this
// model's contexts.
func (m *DecModel) ContextSpecType() contextspec.Type { return m.specType }

// ContextFor resolves the decoder table for spec, falling back to the
// dummy context (index 0) for any spec the model never assigned.
func (m *DecModel) ContextFor(spec contextspec.Spec) *DecContext {
	return &m.contexts[m.specMap[uint32(spec)]]
}
