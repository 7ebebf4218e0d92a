package model

// Manifest is the subset of package.json used by a release
type Manifest struct {
	Name    string `json:"name"`
	Version string `json:"version"`
	Private bool   `json:"private"`
}
