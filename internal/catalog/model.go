package catalog

// Record is one canonical metadata entry for a title.
// Fields carry JSON tags so the merged catalog can be snapshotted to the
// load cache.
type Record struct {
	TitleID string `json:"title_id"`
	Name    string `json:"name"`
	Version string `json:"version"`
	Source  string `json:"source"` // base name of the catalog file it came from
}
