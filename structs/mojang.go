package structs

type MojangVersionManifest struct {
	Latest struct {
		Release  string `json:"release"`
		Snapshot string `json:"snapshot"`
	} `json:"latest"`
	Versions []MojangVersionRef `json:"versions"`
}

type MojangVersionRef struct {
	Id   string `json:"id"`
	Type string `json:"type"`
	Url  string `json:"url"`
	Sha1 string `json:"sha1"`
}

type MojangVersion struct {
	Id        string `json:"id"`
	Downloads struct {
		Client MojangDownload `json:"client"`
	} `json:"downloads"`
}

type MojangDownload struct {
	Sha1 string `json:"sha1"`
	Size int64  `json:"size"`
	Url  string `json:"url"`
}
