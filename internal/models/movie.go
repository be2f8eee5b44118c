package models

// MovieSummary is the listing representation of a movie, with image paths
// already resolved to absolute URLs.
type MovieSummary struct {
	ID          int      `json:"id"`
	Title       string   `json:"title"`
	Overview    string   `json:"overview,omitempty"`
	PosterPath  string   `json:"poster_path,omitempty"`
	PosterURL   string   `json:"poster_url,omitempty"`
	BackdropURL string   `json:"backdrop_url,omitempty"`
	ReleaseDate string   `json:"release_date,omitempty"`
	Year        string   `json:"year,omitempty"`
	VoteAverage float64  `json:"vote_average"`
	Popularity  float64  `json:"popularity,omitempty"`
	Genres      []string `json:"genres"`
}

// CastMember is one credited actor of a movie.
type CastMember struct {
	ID         int    `json:"id"`
	Name       string `json:"name"`
	Character  string `json:"character,omitempty"`
	ProfileURL string `json:"profile_url,omitempty"`
}

// MovieDetail is the full movie page: the summary plus runtime, cast and trailer.
type MovieDetail struct {
	MovieSummary
	Tagline    string       `json:"tagline,omitempty"`
	Runtime    int          `json:"runtime"`
	Cast       []CastMember `json:"cast"`
	TrailerKey string       `json:"trailer_key,omitempty"`
}

// PersonSummary is the listing representation of a person.
type PersonSummary struct {
	ID                 int     `json:"id"`
	Name               string  `json:"name"`
	ProfileURL         string  `json:"profile_url,omitempty"`
	KnownForDepartment string  `json:"known_for_department,omitempty"`
	Popularity         float64 `json:"popularity,omitempty"`
}

// PersonDetail is the actor page: biography plus the ten most popular credits.
type PersonDetail struct {
	PersonSummary
	Biography    string         `json:"biography,omitempty"`
	Birthday     string         `json:"birthday,omitempty"`
	PlaceOfBirth string         `json:"place_of_birth,omitempty"`
	KnownFor     []MovieSummary `json:"known_for"`
}

// HomeEntry pairs a featured movie with its shuffled image set.
type HomeEntry struct {
	Movie  MovieSummary `json:"movie"`
	Images []string     `json:"images"`
}

// HomeFeed is the landing page payload.
type HomeFeed struct {
	Trending []HomeEntry `json:"trending"`
	TopRated []HomeEntry `json:"top_rated"`
}

// GenreOption is one selectable genre filter.
type GenreOption struct {
	ID   int    `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
}

// FilterOptions lists every selectable value of the movie list filters.
type FilterOptions struct {
	Genres  []GenreOption `json:"genres"`
	Years   []string      `json:"years"`
	Ratings []int         `json:"ratings"`
}

// MoviePage is one page of a movie listing.
type MoviePage struct {
	Page    int            `json:"page"`
	Results []MovieSummary `json:"results"`
}

// PeoplePage is one page of a people listing.
type PeoplePage struct {
	Page    int             `json:"page"`
	Results []PersonSummary `json:"results"`
}
