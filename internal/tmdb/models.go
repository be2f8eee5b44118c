package tmdb

// MovieResult is a movie as returned by listing, search, discover and
// recommendation endpoints. VoteAverage is a pointer so that a missing or
// null score can be told apart from a real zero.
type MovieResult struct {
	ID           int      `json:"id"`
	Title        string   `json:"title"`
	Overview     string   `json:"overview"`
	PosterPath   string   `json:"poster_path"`
	BackdropPath string   `json:"backdrop_path"`
	ReleaseDate  string   `json:"release_date"`
	VoteAverage  *float64 `json:"vote_average"`
	Popularity   float64  `json:"popularity"`
	GenreIDs     []int    `json:"genre_ids"`
}

// Score returns the vote average, or 0 when the vendor sent none.
func (m MovieResult) Score() float64 {
	if m.VoteAverage == nil {
		return 0
	}
	return *m.VoteAverage
}

type MoviePage struct {
	Page         int           `json:"page"`
	Results      []MovieResult `json:"results"`
	TotalPages   int           `json:"total_pages"`
	TotalResults int           `json:"total_results"`
}

type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type GenreListResponse struct {
	Genres []Genre `json:"genres"`
}

type CastCredit struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Character   string `json:"character"`
	ProfilePath string `json:"profile_path"`
	Order       int    `json:"order"`
}

type Credits struct {
	Cast []CastCredit `json:"cast"`
}

type Video struct {
	Key  string `json:"key"`
	Name string `json:"name"`
	Site string `json:"site"`
	Type string `json:"type"`
}

type VideoList struct {
	Results []Video `json:"results"`
}

// MovieDetails is /movie/{id} with credits and videos appended.
type MovieDetails struct {
	ID           int       `json:"id"`
	Title        string    `json:"title"`
	Overview     string    `json:"overview"`
	Tagline      string    `json:"tagline"`
	PosterPath   string    `json:"poster_path"`
	BackdropPath string    `json:"backdrop_path"`
	ReleaseDate  string    `json:"release_date"`
	Runtime      int       `json:"runtime"`
	VoteAverage  float64   `json:"vote_average"`
	Popularity   float64   `json:"popularity"`
	Genres       []Genre   `json:"genres"`
	Credits      Credits   `json:"credits"`
	Videos       VideoList `json:"videos"`
}

type Image struct {
	FilePath    string  `json:"file_path"`
	Language    *string `json:"iso_639_1"`
	Width       int     `json:"width"`
	Height      int     `json:"height"`
	VoteAverage float64 `json:"vote_average"`
}

type ImageSet struct {
	ID        int     `json:"id"`
	Backdrops []Image `json:"backdrops"`
	Posters   []Image `json:"posters"`
}

type Person struct {
	ID                 int     `json:"id"`
	Name               string  `json:"name"`
	Biography          string  `json:"biography"`
	Birthday           string  `json:"birthday"`
	PlaceOfBirth       string  `json:"place_of_birth"`
	ProfilePath        string  `json:"profile_path"`
	KnownForDepartment string  `json:"known_for_department"`
	Popularity         float64 `json:"popularity"`
}

type PersonPage struct {
	Page         int      `json:"page"`
	Results      []Person `json:"results"`
	TotalPages   int      `json:"total_pages"`
	TotalResults int      `json:"total_results"`
}

// PersonCastCredit is one movie in a person's filmography.
type PersonCastCredit struct {
	MovieResult
	Character string `json:"character"`
}

type PersonCredits struct {
	ID   int                `json:"id"`
	Cast []PersonCastCredit `json:"cast"`
}

type errorBody struct {
	StatusCode    int    `json:"status_code"`
	StatusMessage string `json:"status_message"`
}
