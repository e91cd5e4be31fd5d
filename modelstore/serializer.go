// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package modelstore serializes model.Model values to and from a portable
// binary encoding, and loads a directory of serialized models into a
// lookup-by-identifier store (spec.md §6.4, SPEC_FULL.md §C.10).
//
// Grounded on original_source/idencomp/src/model_serializer.rs, which uses
// MessagePack (rmp_serde) over a Serialize/Deserialize intermediate struct;
// github.com/vmihailenco/msgpack/v5 is that library's direct Go counterpart
// (grounded in the retrieval pack's go-mizu-mizu and DataDog-datadog-agent
// go.mod files).
package modelstore

import (
	"fmt"
	"io"

	"github.com/vmihailenco/msgpack/v5"

	"code.hybscloud.com/idencomp/context"
	"code.hybscloud.com/idencomp/contextspec"
	"code.hybscloud.com/idencomp/model"
)

type serializableContext struct {
	ContextProb float32   `msgpack:"context_prob"`
	SymbolProb  []float32 `msgpack:"symbol_prob"`
}

type serializableComplexContext struct {
	Specs   []uint32            `msgpack:"specs"`
	Context serializableContext `msgpack:"context"`
}

type serializableModel struct {
	Identifier      [32]byte                     `msgpack:"identifier"`
	ModelType       uint8                        `msgpack:"model_type"`
	ContextSpecType string                       `msgpack:"context_spec_type"`
	Contexts        []serializableComplexContext `msgpack:"contexts"`
}

// WriteModel serializes m to w.
func WriteModel(w io.Writer, m model.Model) error {
	ser := toSerializable(m)
	enc := msgpack.NewEncoder(w)
	return enc.Encode(ser)
}

// ReadModel deserializes one model.Model from r, verifying that the decoded
// identifier matches the one recomputed from its contents (the same sanity
// check model_serializer.rs's SerializableModel -> Model conversion makes).
func ReadModel(r io.Reader) (model.Model, error) {
	var ser serializableModel
	dec := msgpack.NewDecoder(r)
	if err := dec.Decode(&ser); err != nil {
		return model.Model{}, err
	}
	return fromSerializable(ser)
}

func toSerializable(m model.Model) serializableModel {
	complexContexts := m.AsComplexContexts()
	contexts := make([]serializableComplexContext, len(complexContexts))
	for i, cc := range complexContexts {
		specs := make([]uint32, len(cc.Specs))
		for j, s := range cc.Specs {
			specs[j] = uint32(s)
		}
		symbolProb := make([]float32, len(cc.Context.SymbolProb))
		for j, p := range cc.Context.SymbolProb {
			symbolProb[j] = p.Get()
		}
		contexts[i] = serializableComplexContext{
			Specs: specs,
			Context: serializableContext{
				ContextProb: cc.Context.ContextProb.Get(),
				SymbolProb:  symbolProb,
			},
		}
	}

	id := m.Identifier()
	return serializableModel{
		Identifier:      id.Bytes(),
		ModelType:       uint8(m.ModelType()),
		ContextSpecType: m.ContextSpecType().Name(),
		Contexts:        contexts,
	}
}

func fromSerializable(ser serializableModel) (model.Model, error) {
	specType, ok := contextspec.ByName(ser.ContextSpecType)
	if !ok {
		return model.Model{}, fmt.Errorf("modelstore: unknown context spec type %q", ser.ContextSpecType)
	}
	modelType := model.Type(ser.ModelType)

	contexts := make([]context.ComplexContext, len(ser.Contexts))
	for i, sc := range ser.Contexts {
		specs := make([]contextspec.Spec, len(sc.Specs))
		for j, s := range sc.Specs {
			specs[j] = contextspec.Spec(s)
		}
		symbolProb := make([]context.Probability, len(sc.Context.SymbolProb))
		for j, p := range sc.Context.SymbolProb {
			symbolProb[j] = context.NewProbability(p)
		}
		ctx := context.New(context.NewProbability(sc.Context.ContextProb), symbolProb)
		contexts[i] = context.NewComplexContext(ctx, specs)
	}

	m := model.WithModelAndSpecType(modelType, specType, contexts)
	if m.Identifier() != model.Identifier(ser.Identifier) {
		return model.Model{}, fmt.Errorf("modelstore: decoded model identifier mismatch")
	}
	return m, nil
}
