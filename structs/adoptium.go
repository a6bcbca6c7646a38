package structs

import "time"

// Adoptium is the response of /v3/assets/latest/{major}/hotspot.
type Adoptium []struct {
	Binary      AdoptiumBinary `json:"binary"`
	ReleaseName string         `json:"release_name"`
	Version     struct {
		Major int `json:"major"`
	} `json:"version"`
}

type AdoptiumBinary struct {
	Architecture string          `json:"architecture"`
	HeapSize     string          `json:"heap_size"`
	ImageType    string          `json:"image_type"`
	JvmImpl      string          `json:"jvm_impl"`
	Os           string          `json:"os"`
	Package      AdoptiumPackage `json:"package"`
	Project      string          `json:"project"`
	ScmRef       string          `json:"scm_ref"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

type AdoptiumPackage struct {
	Checksum      string `json:"checksum"`
	ChecksumLink  string `json:"checksum_link"`
	DownloadCount int    `json:"download_count"`
	Link          string `json:"link"`
	MetadataLink  string `json:"metadata_link"`
	Name          string `json:"name"`
	SignatureLink string `json:"signature_link"`
	Size          int    `json:"size"`
}
