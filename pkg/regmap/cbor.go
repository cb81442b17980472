package regmap

import (
	"fmt"
	"io"
	"os"

	"github.com/fxamacker/cbor/v2"
)

// mapEncMode is the CBOR encoder mode for register maps. Canonical sorting
// keeps the output byte-identical across runs.
var mapEncMode cbor.EncMode

// mapDecMode is the CBOR decoder mode for register maps.
var mapDecMode cbor.DecMode

func init() {
	var err error

	encOpts := cbor.EncOptions{
		Sort:          cbor.SortCanonical,
		IndefLength:   cbor.IndefLengthForbidden,
		NilContainers: cbor.NilContainerAsNull,
	}
	mapEncMode, err = encOpts.EncMode()
	if err != nil {
		panic(fmt.Sprintf("failed to create register map CBOR encoder mode: %v", err))
	}

	decOpts := cbor.DecOptions{
		DupMapKey:   cbor.DupMapKeyEnforcedAPF,
		IndefLength: cbor.IndefLengthAllowed,
	}
	mapDecMode, err = decOpts.DecMode()
	if err != nil {
		panic(fmt.Sprintf("failed to create register map CBOR decoder mode: %v", err))
	}
}

// Marshal encodes a register map to CBOR bytes.
func Marshal(m *Map) ([]byte, error) {
	return mapEncMode.Marshal(m)
}

// Unmarshal decodes a register map from CBOR bytes.
func Unmarshal(data []byte) (*Map, error) {
	var m Map
	if err := mapDecMode.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("decoding register map: %w", err)
	}
	if m.Version != FormatVersion {
		return nil, fmt.Errorf("register map version %d not supported (want %d)", m.Version, FormatVersion)
	}
	return &m, nil
}

// Encode writes a register map to w.
func Encode(w io.Writer, m *Map) error {
	return mapEncMode.NewEncoder(w).Encode(m)
}

// Load reads a register map file.
func Load(path string) (*Map, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return Unmarshal(data)
}
