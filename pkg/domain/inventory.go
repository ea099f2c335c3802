package domain

// Inventory represents the extraction results of a project scan.
type Inventory struct {
	// Files contains the results of successfully extracted files.
	Files []*Result `json:"files"`
	// RootPath is the root directory path of the scanned project.
	RootPath string `json:"rootPath"`
}

// CountElements returns the total number of elements across all files.
func (inv Inventory) CountElements() int {
	count := 0
	for _, f := range inv.Files {
		count += f.CountElements()
	}
	return count
}

// Find returns the result for the given path, or nil.
func (inv Inventory) Find(path string) *Result {
	for _, f := range inv.Files {
		if f.Path == path {
			return f
		}
	}
	return nil
}
