package compiler

// Dedup appends the model ID to the name of every record that shares its
// name with another record. It needs the complete set of records, so it
// runs after all models are compiled. Renaming repeats while a suffixed name
// collides with another record's name.
func Dedup(records []*Record) {
	for round := range records {
		counts := make(map[string]int, len(records))
		ids := make(map[string]map[int]bool, len(records))
		for _, r := range records {
			counts[r.Name]++
			if ids[r.Name] == nil {
				ids[r.Name] = make(map[int]bool)
			}
			ids[r.Name][r.ID] = true
		}
		renamed := false
		for _, r := range records {
			if counts[r.Name] < 2 {
				continue
			}
			// Once suffixed, records with the same ID cannot be told apart.
			if round > 0 && len(ids[r.Name]) < 2 {
				continue
			}
			r.appendIDToName()
			renamed = true
		}
		if !renamed {
			return
		}
	}
}
