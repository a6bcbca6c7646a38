package meta

import (
	"fmt"
	"strings"

	"github.com/go-resty/resty/v2"
	"github.com/pterm/pterm"
	"github.com/uku3lig/uklient/structs"
)

const (
	FabricMetaUrl = "https://meta.fabricmc.net/v2"
	QuiltMetaUrl  = "https://meta.quiltmc.org/v3"
)

type Loader string

const (
	Fabric Loader = "fabric"
	Quilt  Loader = "quilt"
)

// ParseLoader matches a content-host loader name against the supported
// backends, case-insensitively.
func ParseLoader(name string) (Loader, bool) {
	switch strings.ToLower(name) {
	case string(Fabric):
		return Fabric, true
	case string(Quilt):
		return Quilt, true
	default:
		return "", false
	}
}

// MetaError reports that a metadata service had no matching version.
type MetaError struct {
	Backend string
}

func (e *MetaError) Error() string {
	return fmt.Sprintf("%s version not found", e.Backend)
}

// Client queries the fabric and quilt metadata services.
type Client struct {
	rest      *resty.Client
	FabricUrl string
	QuiltUrl  string
}

func NewClient(rest *resty.Client) *Client {
	return &Client{
		rest:      rest,
		FabricUrl: FabricMetaUrl,
		QuiltUrl:  QuiltMetaUrl,
	}
}

// Resolve returns the newest loader build supporting gameVersion. The
// services order builds newest first, so the head of the list wins.
func (c *Client) Resolve(loader Loader, gameVersion string) (structs.LoaderVersion, error) {
	base, err := c.baseUrl(loader)
	if err != nil {
		return structs.LoaderVersion{}, err
	}

	url := fmt.Sprintf("%s/versions/loader/%s", base, gameVersion)
	pterm.Debug.Printfln("Resolving %s loader for %s using %s", loader, gameVersion, url)

	var elements []structs.LoaderVersionElement
	resp, err := c.rest.R().SetResult(&elements).Get(url)
	if err != nil {
		return structs.LoaderVersion{}, err
	}
	if resp.IsError() {
		return structs.LoaderVersion{}, fmt.Errorf("%s meta returned %s", loader, resp.Status())
	}

	if len(elements) == 0 {
		return structs.LoaderVersion{}, &MetaError{Backend: string(loader)}
	}

	latest := elements[0].Loader
	return structs.LoaderVersion{
		Id:          latest.Version,
		Stable:      latest.Stable,
		ManifestUrl: fmt.Sprintf("%s/versions/loader/%s/%s/profile/json", base, gameVersion, latest.Version),
	}, nil
}

func (c *Client) baseUrl(loader Loader) (string, error) {
	switch loader {
	case Fabric:
		return c.FabricUrl, nil
	case Quilt:
		return c.QuiltUrl, nil
	default:
		return "", fmt.Errorf("unsupported loader '%s'", loader)
	}
}
