package modrinth

import (
	"fmt"
	"slices"

	"github.com/go-resty/resty/v2"
	"github.com/pterm/pterm"
	"github.com/uku3lig/uklient/meta"
	"github.com/uku3lig/uklient/structs"
)

const ApiUrl = "https://api.modrinth.com/v2"

// Client talks to the Modrinth content host.
type Client struct {
	rest    *resty.Client
	meta    *meta.Client
	BaseUrl string
}

func NewClient(rest *resty.Client, metaClient *meta.Client) *Client {
	return &Client{
		rest:    rest,
		meta:    metaClient,
		BaseUrl: ApiUrl,
	}
}

// GetMetadata selects the modpack version matching gameVersion, determines
// its loader backend and resolves the newest loader build for it. Quilt is
// checked before fabric so quilt packs never fall back to the fabric build.
func (c *Client) GetMetadata(modpackId, gameVersion string) (structs.ModpackMeta, error) {
	var project structs.ModrinthProject
	resp, err := c.rest.R().SetResult(&project).Get(c.BaseUrl + "/project/" + modpackId)
	if err != nil {
		return structs.ModpackMeta{}, err
	}
	if resp.IsError() {
		return structs.ModpackMeta{}, fmt.Errorf("modrinth project lookup returned %s", resp.Status())
	}

	var versions []structs.ModrinthVersion
	resp, err = c.rest.R().SetResult(&versions).Get(c.BaseUrl + "/project/" + modpackId + "/version")
	if err != nil {
		return structs.ModpackMeta{}, err
	}
	if resp.IsError() {
		return structs.ModpackMeta{}, fmt.Errorf("modrinth version list returned %s", resp.Status())
	}

	version, loader, err := selectVersion(versions, gameVersion)
	if err != nil {
		return structs.ModpackMeta{}, err
	}
	pterm.Debug.Printfln("Selected version %s (%s) for loader %s", version.Name, version.Id, loader)

	loaderVersion, err := c.meta.Resolve(loader, gameVersion)
	if err != nil {
		return structs.ModpackMeta{}, err
	}

	return structs.ModpackMeta{
		Name:          project.Title,
		Loader:        string(loader),
		LoaderVersion: loaderVersion,
		GameVersion:   gameVersion,
		File:          primaryFile(version),
	}, nil
}

// selectVersion filters to versions declaring gameVersion, then takes the
// first (host-ordered) one whose loader list contains a supported backend.
func selectVersion(versions []structs.ModrinthVersion, gameVersion string) (structs.ModrinthVersion, meta.Loader, error) {
	for _, candidate := range []meta.Loader{meta.Quilt, meta.Fabric} {
		for _, v := range versions {
			if !slices.Contains(v.GameVersions, gameVersion) {
				continue
			}
			for _, l := range v.Loaders {
				if parsed, ok := meta.ParseLoader(l); ok && parsed == candidate {
					return v, candidate, nil
				}
			}
		}
	}
	return structs.ModrinthVersion{}, "", &meta.MetaError{Backend: "modpack"}
}

func primaryFile(version structs.ModrinthVersion) structs.ModrinthFile {
	for _, f := range version.Files {
		if f.Primary {
			return f
		}
	}
	if len(version.Files) > 0 {
		return version.Files[0]
	}
	return structs.ModrinthFile{}
}
