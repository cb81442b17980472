package modeldef

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Patterns are the file name patterns Discover looks for.
var Patterns = []string{"model_*.json", "model_*.yaml", "model_*.yml"}

// Discover returns the model description files in dir, in natural order.
func Discover(dir string) ([]string, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("models dir: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("models dir %s is not a directory", dir)
	}

	var paths []string
	for _, pattern := range Patterns {
		matches, err := filepath.Glob(filepath.Join(dir, pattern))
		if err != nil {
			return nil, fmt.Errorf("glob %s: %w", pattern, err)
		}
		paths = append(paths, matches...)
	}
	SortNatural(paths)
	return paths, nil
}

// SortNatural sorts names in natural order.
func SortNatural(names []string) {
	sort.SliceStable(names, func(i, j int) bool {
		return NaturalLess(names[i], names[j])
	})
}

// NaturalLess orders "model_2.json" before "model_10.json". Digit runs
// compare by numeric value, everything else case-insensitively. Names that
// only differ in case or leading zeros fall back to byte order.
func NaturalLess(a, b string) bool {
	ka, kb := naturalKey(a), naturalKey(b)
	for i := 0; i < len(ka) && i < len(kb); i++ {
		if c := ka[i].compare(kb[i]); c != 0 {
			return c < 0
		}
	}
	if len(ka) != len(kb) {
		return len(ka) < len(kb)
	}
	return a < b
}

type naturalPart struct {
	text    string
	numeric bool
}

// naturalKey splits s into alternating text and digit runs. The key always
// starts with a (possibly empty) text part so parts at the same index are
// of the same kind.
func naturalKey(s string) []naturalPart {
	parts := []naturalPart{{}}
	start := 0
	inDigits := false
	for i := 0; i < len(s); i++ {
		d := s[i] >= '0' && s[i] <= '9'
		if d == inDigits {
			continue
		}
		parts[len(parts)-1].text = s[start:i]
		parts = append(parts, naturalPart{numeric: d})
		start = i
		inDigits = d
	}
	parts[len(parts)-1].text = s[start:]
	return parts
}

func (p naturalPart) compare(o naturalPart) int {
	if !p.numeric {
		return strings.Compare(strings.ToLower(p.text), strings.ToLower(o.text))
	}
	x := strings.TrimLeft(p.text, "0")
	y := strings.TrimLeft(o.text, "0")
	if len(x) != len(y) {
		if len(x) < len(y) {
			return -1
		}
		return 1
	}
	return strings.Compare(x, y)
}
