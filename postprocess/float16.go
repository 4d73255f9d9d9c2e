package postprocess

import "github.com/x448/float16"

var f16LookupTable [65536]float32

func init() {
	// precompute float16 lookup table for faster conversion to float32
	for i := range f16LookupTable {
		f16LookupTable[i] = float16.Frombits(uint16(i)).Float32()
	}
}

// float16ToFloat32 widens half precision engine output into float32
func float16ToFloat32(bits []uint16) []float32 {
	out := make([]float32, len(bits))

	for i, b := range bits {
		out[i] = f16LookupTable[b]
	}

	return out
}
