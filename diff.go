package polyglot

// DiffResult is the difference between two extractions of a document.
type DiffResult struct {
	// Added contains units whose identifier is new.
	Added []TranslatableUnit

	// Removed contains units whose identifier no longer exists.
	Removed []TranslatableUnit

	// Unchanged contains units with the same identifier and text.
	Unchanged []TranslatableUnit

	// Modified contains units whose identifier survived but whose text changed.
	Modified []ModifiedUnit
}

// ModifiedUnit pairs the old and new version of a unit.
type ModifiedUnit struct {
	Old TranslatableUnit
	New TranslatableUnit
}

// DiffStats contains summary statistics for a diff.
type DiffStats struct {
	Added     int
	Removed   int
	Unchanged int
	Modified  int
}

// Stats returns summary statistics for the diff.
func (d *DiffResult) Stats() DiffStats {
	return DiffStats{
		Added:     len(d.Added),
		Removed:   len(d.Removed),
		Unchanged: len(d.Unchanged),
		Modified:  len(d.Modified),
	}
}

// HasChanges returns true if there are any differences.
func (d *DiffResult) HasChanges() bool {
	return len(d.Added) > 0 || len(d.Removed) > 0 || len(d.Modified) > 0
}

// NeedsTranslation returns the new and modified units, in document order of
// the newer extraction.
func (d *DiffResult) NeedsTranslation() []TranslatableUnit {
	result := make([]TranslatableUnit, 0, len(d.Added)+len(d.Modified))
	result = append(result, d.Added...)
	for _, m := range d.Modified {
		result = append(result, m.New)
	}
	return result
}

// DiffUnits compares two extractions by identifier. Slices keep the order of
// the extraction they come from, so the result is deterministic.
func DiffUnits(oldUnits, newUnits []TranslatableUnit) *DiffResult {
	result := &DiffResult{}

	oldByID := make(map[string]TranslatableUnit, len(oldUnits))
	for _, u := range oldUnits {
		oldByID[u.ID] = u
	}
	newIDs := make(map[string]bool, len(newUnits))

	for _, u := range newUnits {
		newIDs[u.ID] = true
		old, ok := oldByID[u.ID]
		switch {
		case !ok:
			result.Added = append(result.Added, u)
		case old.Text == u.Text:
			result.Unchanged = append(result.Unchanged, u)
		default:
			result.Modified = append(result.Modified, ModifiedUnit{Old: old, New: u})
		}
	}

	for _, u := range oldUnits {
		if !newIDs[u.ID] {
			result.Removed = append(result.Removed, u)
		}
	}

	return result
}
