package bank

// SourceBank is the ordered set of starting particles for a generation.
// It has a single writer between generations and is read-only during transport.
type SourceBank struct {
	sites []Site
}

// Clear empties the bank, keeping its storage.
func (b *SourceBank) Clear() {
	b.sites = b.sites[:0]
}

// Append adds a site at the end.
func (b *SourceBank) Append(site Site) {
	b.sites = append(b.sites, site)
}

// CopyFrom replaces the contents with a copy of sites.
func (b *SourceBank) CopyFrom(sites []Site) {
	b.sites = append(b.sites[:0], sites...)
}

// At returns the site at index i.
func (b *SourceBank) At(i int) Site {
	return b.sites[i]
}

// Len returns the number of sites.
func (b *SourceBank) Len() int {
	return len(b.sites)
}

// Sites returns the bank contents. Callers must not append to the returned slice.
func (b *SourceBank) Sites() []Site {
	return b.sites
}

// Release drops the storage.
func (b *SourceBank) Release() {
	b.sites = nil
}
