package domain

// Result is one movie catalog entry returned by a search
type Result struct {
	Title        string `json:"title"`
	Year         string `json:"year"`
	Quality      string `json:"quality"`
	Genre        string `json:"genre"`
	DownloadLink string `json:"download_link"`
}
