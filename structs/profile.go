package structs

type Profile struct {
	Path           string         `json:"path"`
	Name           string         `json:"name"`
	Loader         string         `json:"loader"`
	LoaderVersion  string         `json:"loaderVersion"`
	LoaderManifest string         `json:"loaderManifest"`
	GameVersion    string         `json:"gameVersion"`
	JavaPath       string         `json:"javaPath"`
	JavaVersion    int            `json:"javaVersion"`
	Memory         MemorySettings `json:"memory"`
	Resolution     WindowSize     `json:"resolution"`
}

type MemorySettings struct {
	// Maximum heap size in MiB.
	Maximum int `json:"maximum"`
}

type WindowSize struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}
