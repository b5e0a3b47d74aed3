// This file is the WASM device-function path described in strategy.go's
// package doc: a compiled module stands in for an accelerator-resident
// function referenced by a raw device pointer. Built on
// github.com/wasmerio/wasmer-go, generalized from "run a module's main()"
// to "run a module's objective/mutate/crossover export over a genome
// encoded as little-endian float32 bytes".
package strategy

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/wasmerio/wasmer-go/wasmer"
)

// WASMModule wraps a compiled module so it only has to be compiled once per
// RegisterWASM call rather than once per kernel invocation.
type WASMModule struct {
	store    *wasmer.Store
	instance *wasmer.Instance
}

func compileWASM(moduleBytes []byte) (*WASMModule, error) {
	engine := wasmer.NewEngine()
	store := wasmer.NewStore(engine)
	module, err := wasmer.NewModule(store, moduleBytes)
	if err != nil {
		return nil, fmt.Errorf("strategy: compiling wasm module: %w", err)
	}
	instance, err := wasmer.NewInstance(module, wasmer.NewImportObject())
	if err != nil {
		return nil, fmt.Errorf("strategy: instantiating wasm module: %w", err)
	}
	return &WASMModule{store: store, instance: instance}, nil
}

func encodeGenome(genome []float32) []byte {
	buf := make([]byte, 4*len(genome))
	for i, g := range genome {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(g))
	}
	return buf
}

func decodeGenome(data []byte, out []float32) {
	n := len(data) / 4
	if n > len(out) {
		n = len(out)
	}
	for i := 0; i < n; i++ {
		out[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
}

// RegisterWASMObjective compiles moduleBytes once and registers tag to call
// its "objective" export, passing the genome as little-endian float32 bytes
// and interpreting the single float32 result.
func (r *Registry) RegisterWASMObjective(tag string, moduleBytes []byte) error {
	mod, err := compileWASM(moduleBytes)
	if err != nil {
		return err
	}
	fn, err := mod.instance.Exports.GetFunction("objective")
	if err != nil {
		return fmt.Errorf("strategy: wasm module missing objective export: %w", err)
	}
	r.RegisterObjective(tag, func(genome []float32) float32 {
		result, err := fn(encodeGenome(genome))
		if err != nil {
			return 0
		}
		bytes, ok := result.([]byte)
		if !ok || len(bytes) < 4 {
			return 0
		}
		return math.Float32frombits(binary.LittleEndian.Uint32(bytes))
	})
	return nil
}

// RegisterWASMMutator compiles moduleBytes once and registers tag to call
// its "mutate" export, round-tripping child through the module and writing
// the result back in place.
func (r *Registry) RegisterWASMMutator(tag string, moduleBytes []byte) error {
	mod, err := compileWASM(moduleBytes)
	if err != nil {
		return err
	}
	fn, err := mod.instance.Exports.GetFunction("mutate")
	if err != nil {
		return fmt.Errorf("strategy: wasm module missing mutate export: %w", err)
	}
	r.RegisterMutator(tag, func(child, randStrip []float32) {
		payload := append(encodeGenome(child), encodeGenome(randStrip)...)
		result, err := fn(payload)
		if err != nil {
			return
		}
		if bytes, ok := result.([]byte); ok {
			decodeGenome(bytes, child)
		}
	})
	return nil
}

// RegisterWASMCrossover compiles moduleBytes once and registers tag to call
// its "crossover" export.
func (r *Registry) RegisterWASMCrossover(tag string, moduleBytes []byte) error {
	mod, err := compileWASM(moduleBytes)
	if err != nil {
		return err
	}
	fn, err := mod.instance.Exports.GetFunction("crossover")
	if err != nil {
		return fmt.Errorf("strategy: wasm module missing crossover export: %w", err)
	}
	r.RegisterCrossover(tag, func(parentA, parentB, child, randStrip []float32) {
		payload := append(encodeGenome(parentA), encodeGenome(parentB)...)
		payload = append(payload, encodeGenome(randStrip)...)
		result, err := fn(payload)
		if err != nil {
			return
		}
		if bytes, ok := result.([]byte); ok {
			decodeGenome(bytes, child)
		}
	})
	return nil
}
