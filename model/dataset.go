package model

// ManifestRewrite describes a dataset manifest after its paths were made absolute.
type ManifestRewrite struct {
	Source      string `json:"source"`
	Destination string `json:"destination"`
	Train       string `json:"train"`
	Val         string `json:"val"`
	Test        string `json:"test"`
}
