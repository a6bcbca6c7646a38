package meta

import (
	"fmt"

	"github.com/go-resty/resty/v2"
	"github.com/uku3lig/uklient/structs"
)

const VersionManifestUrl = "https://launchermeta.mojang.com/mc/game/version_manifest_v2.json"

// Mojang fetches the vanilla version manifest, used by the launcher to
// locate the client jar for a game version.
type Mojang struct {
	rest        *resty.Client
	ManifestUrl string
}

func NewMojang(rest *resty.Client) *Mojang {
	return &Mojang{rest: rest, ManifestUrl: VersionManifestUrl}
}

func (m *Mojang) ClientDownload(gameVersion string) (structs.MojangDownload, error) {
	var manifest structs.MojangVersionManifest
	resp, err := m.rest.R().SetResult(&manifest).Get(m.ManifestUrl)
	if err != nil {
		return structs.MojangDownload{}, err
	}
	if resp.IsError() {
		return structs.MojangDownload{}, fmt.Errorf("version manifest returned %s", resp.Status())
	}

	var ref structs.MojangVersionRef
	for _, v := range manifest.Versions {
		if v.Id == gameVersion {
			ref = v
			break
		}
	}
	if ref.Url == "" {
		return structs.MojangDownload{}, &MetaError{Backend: "minecraft"}
	}

	var version structs.MojangVersion
	resp, err = m.rest.R().SetResult(&version).Get(ref.Url)
	if err != nil {
		return structs.MojangDownload{}, err
	}
	if resp.IsError() {
		return structs.MojangDownload{}, fmt.Errorf("version detail returned %s", resp.Status())
	}

	return version.Downloads.Client, nil
}
