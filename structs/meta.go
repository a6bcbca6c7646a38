package structs

// LoaderVersion is a resolved mod loader build for one game version.
type LoaderVersion struct {
	Id          string `json:"id"`
	Stable      bool   `json:"stable"`
	ManifestUrl string `json:"url"`
}

// LoaderVersionElement is one entry of the fabric/quilt meta
// /versions/loader/{game_version} response, newest first.
type LoaderVersionElement struct {
	Loader MetaLoaderVersion `json:"loader"`
}

type MetaLoaderVersion struct {
	Separator string `json:"separator"`
	Build     int    `json:"build"`
	Maven     string `json:"maven"`
	Version   string `json:"version"`
	Stable    bool   `json:"stable"`
}

// ModpackMeta describes the modpack version selected for install.
type ModpackMeta struct {
	Name          string
	Loader        string
	LoaderVersion LoaderVersion
	GameVersion   string
	File          ModrinthFile
}
