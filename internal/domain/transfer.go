package domain

// FileDetail describes a file the network client downloaded to the local
// cache folder.
type FileDetail struct {
	Xorname   string `json:"xorname"`
	FileName  string `json:"fileName"`
	Extension string `json:"extension"`
	Path      string `json:"path"` // Absolute local path
	Size      int64  `json:"size"`
}

// MetadataDetail holds the metadata extracted from a local audio file prior
// to upload.
type MetadataDetail struct {
	Path        string   `json:"path"`
	Title       string   `json:"title"`
	Artist      string   `json:"artist"`
	Album       string   `json:"album,omitempty"`
	TrackNumber int      `json:"trackNumber,omitempty"`
	Duration    float64  `json:"duration,omitempty"` // Seconds
	Picture     *Picture `json:"picture,omitempty"`
}
