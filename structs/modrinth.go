package structs

type ModrinthProject struct {
	Title string `json:"title"`
	Slug  string `json:"slug"`
}

type ModrinthVersion struct {
	Id           string         `json:"id"`
	Name         string         `json:"name"`
	GameVersions []string       `json:"game_versions"`
	Loaders      []string       `json:"loaders"`
	Files        []ModrinthFile `json:"files"`
}

type ModrinthFile struct {
	Url      string            `json:"url"`
	Filename string            `json:"filename"`
	Primary  bool              `json:"primary"`
	Size     int64             `json:"size"`
	Hashes   map[string]string `json:"hashes"`
}

///////////////////////////////////////////

// Index is the modrinth.index.json manifest embedded in a .mrpack archive.
type Index struct {
	FormatVersion int               `json:"formatVersion"`
	Game          string            `json:"game"`
	VersionId     string            `json:"versionId"`
	Name          string            `json:"name"`
	Summary       string            `json:"summary,omitempty"`
	Files         []IndexFile       `json:"files"`
	Dependencies  map[string]string `json:"dependencies"`
}

type IndexFile struct {
	Path   string            `json:"path"`
	Hashes map[string]string `json:"hashes"`
	Env    *struct {
		Client string `json:"client"`
		Server string `json:"server"`
	} `json:"env,omitempty"`
	Downloads []string `json:"downloads"`
	FileSize  int64    `json:"fileSize"`
}
